package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// fakeSession hands out a fixed token and swaps it on Refresh.
type fakeSession struct {
	mu           sync.Mutex
	token        string
	next         string
	refreshErr   error
	refreshCalls atomic.Int32
}

func (f *fakeSession) AccessToken(_ context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeSession) Refresh(_ context.Context) (string, error) {
	f.refreshCalls.Add(1)
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = f.next
	return f.next, nil
}

// recorder captures what the test server received.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func (r *recorder) add(req *http.Request, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	r.bodies = append(r.bodies, body)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *recorder) authorization(i int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[i].Header.Get("Authorization")
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	cfg := domain.DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, opts...)
}
