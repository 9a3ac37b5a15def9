package driving

import (
	"context"
	"net/http"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// APIClient issues requests against the backend.
// It never returns an error: every outcome, including transport failures,
// is a normalized Envelope.
type APIClient interface {
	// Request sends method to path with an optional body and extra headers.
	Request(ctx context.Context, method, path string, body any, headers http.Header) *domain.Envelope

	Get(ctx context.Context, path string) *domain.Envelope
	Post(ctx context.Context, path string, body any) *domain.Envelope
	Put(ctx context.Context, path string, body any) *domain.Envelope
	Patch(ctx context.Context, path string, body any) *domain.Envelope
	Delete(ctx context.Context, path string) *domain.Envelope

	// Upload posts a multipart form.
	Upload(ctx context.Context, path string, form *domain.FormData) *domain.Envelope
}
