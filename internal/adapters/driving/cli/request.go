package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

var (
	requestData    string
	requestForms   []string
	requestFiles   []string
	requestHeaders []string
	requestRaw     bool
)

var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an authenticated request",
	Long: `Sends METHOD PATH to the backend with the current access token and
prints the normalized response envelope.

A JSON body is given with --data. Multipart uploads are built from --form
key=value and --file field=path; the two body styles cannot be mixed.
A 401 is answered with one token refresh and one retry.`,
	Example: `  admindesk request GET /api/v1/customers
  admindesk request POST /api/v1/customers --data '{"name":"Acme"}'
  admindesk request POST /api/v1/imports --form kind=csv --file upload=./customers.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runRequest,
}

func init() {
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "JSON request body")
	requestCmd.Flags().StringArrayVar(&requestForms, "form", nil, "multipart field key=value (repeatable)")
	requestCmd.Flags().StringArrayVar(&requestFiles, "file", nil, "multipart file field=path (repeatable)")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "extra header 'Name: value' (repeatable)")
	requestCmd.Flags().BoolVar(&requestRaw, "raw", false, "print only the data payload")
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	if apiClient == nil {
		return errors.New("api client not configured")
	}

	method := strings.ToUpper(args[0])
	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := requestBody()
	if err != nil {
		return err
	}
	headers, err := parseHeaders(requestHeaders)
	if err != nil {
		return err
	}

	env := apiClient.Request(context.Background(), method, path, body, headers)
	if err := printEnvelope(cmd, env, requestRaw); err != nil {
		return err
	}

	switch {
	case env.Unauthenticated:
		return fmt.Errorf("not authenticated: %s", env.ErrorText())
	case !env.Success:
		return fmt.Errorf("request failed: %s", env.ErrorText())
	}
	return nil
}

// requestBody builds the body from --data or the multipart flags.
func requestBody() (any, error) {
	multipart := len(requestForms) > 0 || len(requestFiles) > 0
	if requestData != "" && multipart {
		return nil, fmt.Errorf("--data cannot be combined with --form or --file: %w", domain.ErrInvalidInput)
	}

	if requestData != "" {
		if !json.Valid([]byte(requestData)) {
			return nil, fmt.Errorf("--data is not valid JSON: %w", domain.ErrInvalidInput)
		}
		return json.RawMessage(requestData), nil
	}

	if !multipart {
		return nil, nil
	}

	form := domain.NewFormData()
	for _, kv := range requestForms {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--form %q must be key=value: %w", kv, domain.ErrInvalidInput)
		}
		form.AddField(key, value)
	}
	for _, kv := range requestFiles {
		field, path, ok := strings.Cut(kv, "=")
		if !ok || field == "" || path == "" {
			return nil, fmt.Errorf("--file %q must be field=path: %w", kv, domain.ErrInvalidInput)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		form.AddFile(field, filepath.Base(path), content)
	}
	return form, nil
}

func parseHeaders(values []string) (http.Header, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := http.Header{}
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q must be 'Name: value': %w", v, domain.ErrInvalidInput)
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers, nil
}

func printEnvelope(cmd *cobra.Command, env *domain.Envelope, raw bool) error {
	var out any = env
	if raw {
		if len(env.Data) == 0 {
			return nil
		}
		out = env.Data
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}
	cmd.Println(string(encoded))
	return nil
}
