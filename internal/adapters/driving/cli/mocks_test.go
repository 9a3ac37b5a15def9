package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

type mockSession struct {
	loginEmail    string
	loginPassword string
	loginResult   *domain.LoginResult
	loginErr      error
	logoutCalls   int
	authenticated bool
	status        domain.SessionStatus
}

func (m *mockSession) Login(_ context.Context, email, password string) (*domain.LoginResult, error) {
	m.loginEmail, m.loginPassword = email, password
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *mockSession) Logout(_ context.Context) error {
	m.logoutCalls++
	return nil
}

func (m *mockSession) AccessToken(_ context.Context) (string, bool)  { return "", false }
func (m *mockSession) Refresh(_ context.Context) (string, error)     { return "", domain.ErrNoRefreshToken }
func (m *mockSession) IsAuthenticated(_ context.Context) bool        { return m.authenticated }
func (m *mockSession) Status(_ context.Context) domain.SessionStatus { return m.status }

type apiCall struct {
	method  string
	path    string
	body    any
	headers http.Header
}

type mockAPI struct {
	calls    []apiCall
	response *domain.Envelope
}

func (m *mockAPI) Request(_ context.Context, method, path string, body any, headers http.Header) *domain.Envelope {
	m.calls = append(m.calls, apiCall{method: method, path: path, body: body, headers: headers})
	if m.response == nil {
		return &domain.Envelope{Success: true, Status: 200, Shape: domain.ShapeBare}
	}
	return m.response
}

func (m *mockAPI) Get(ctx context.Context, path string) *domain.Envelope {
	return m.Request(ctx, http.MethodGet, path, nil, nil)
}

func (m *mockAPI) Post(ctx context.Context, path string, body any) *domain.Envelope {
	return m.Request(ctx, http.MethodPost, path, body, nil)
}

func (m *mockAPI) Put(ctx context.Context, path string, body any) *domain.Envelope {
	return m.Request(ctx, http.MethodPut, path, body, nil)
}

func (m *mockAPI) Patch(ctx context.Context, path string, body any) *domain.Envelope {
	return m.Request(ctx, http.MethodPatch, path, body, nil)
}

func (m *mockAPI) Delete(ctx context.Context, path string) *domain.Envelope {
	return m.Request(ctx, http.MethodDelete, path, nil, nil)
}

func (m *mockAPI) Upload(ctx context.Context, path string, form *domain.FormData) *domain.Envelope {
	return m.Request(ctx, http.MethodPost, path, form, nil)
}

type mockSettings struct {
	mu     sync.Mutex
	cfg    domain.ClientConfig
	getErr error
	setErr error
	set    map[string]string
}

func (m *mockSettings) Get() (domain.ClientConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, m.getErr
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = map[string]string{}
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Keys() []string { return []string{"api.base_url", "api.timeout_seconds"} }
func (m *mockSettings) Path() string   { return "/tmp/admindesk/config.toml" }

// mockWatcher reports one change and then waits for cancellation.
type mockWatcher struct{}

func (mockWatcher) Watch(ctx context.Context, _ time.Duration, onChange func()) error {
	onChange()
	<-ctx.Done()
	return nil
}

// setupServices installs services and resets flag state between runs.
func setupServices(t *testing.T, s Services) {
	t.Helper()
	SetServices(s)
	loginEmail = ""
	requestData = ""
	requestForms = nil
	requestFiles = nil
	requestHeaders = nil
	requestRaw = false
	versionShort = false
	t.Cleanup(func() { SetServices(Services{}) })
}

// execute runs the root command with args and stdin, returning its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
