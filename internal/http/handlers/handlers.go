// Package handlers exposes the public HTTP endpoints:
//   - POST {api}/suggest      (generate gift suggestions)
//   - POST {api}/share        (store a shareable snapshot)
//   - GET  {api}/share/{id}   (read a snapshot as JSON)
//   - GET  /share/{id}        (resolve a share link to the app)
//
// Handlers are transport-thin: they decode input, call the services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

//
// Service contracts (context-aware)
//

// SuggestionService generates suggestions. It never fails; upstream problems
// are absorbed by the implementation.
type SuggestionService interface {
	Generate(ctx context.Context, req domain.GiftRequest) []domain.Suggestion
}

// ShareService stores and loads share records.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ShareService interface {
	// CreateIdempotent stores a new record, or returns the record an earlier
	// call with the same client and key produced (replayed=true).
	CreateIdempotent(ctx context.Context, client, key, query string, results []domain.Suggestion) (domain.ShareRecord, bool, error)
	// Get returns a live record or an error wrapping services.ErrShareNotFound.
	Get(ctx context.Context, id string) (domain.ShareRecord, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints.
type Handlers struct {
	suggestSvc SuggestionService
	shareSvc   ShareService

	// publicBaseURL is the origin used in share URLs and redirects. Empty
	// means derive it from each request.
	publicBaseURL string
}

// New constructs a Handlers bound to the given services.
func New(suggestSvc SuggestionService, shareSvc ShareService, publicBaseURL string) *Handlers {
	return &Handlers{
		suggestSvc:    suggestSvc,
		shareSvc:      shareSvc,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// origin returns the scheme://host that public links should point at.
func (h *Handlers) origin(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	return requestOrigin(c.Request)
}

// requestOrigin rebuilds the origin the client used, honoring a reverse
// proxy's X-Forwarded-Proto when it names http or https.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		p = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
		if p == "http" || p == "https" {
			scheme = p
		}
	}
	return scheme + "://" + r.Host
}
