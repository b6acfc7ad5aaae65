package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/http/middleware"
	"github.com/tbourn/giftfndr-backend/internal/services"
)

//
// DTOs
//

// CreateShareRequest is the share write payload. Both fields are required;
// results may be an empty list but not null.
type CreateShareRequest struct {
	Query   *string             `json:"query" example:"Birthday gift for Mum who likes gardening"`
	Results []domain.Suggestion `json:"results"`
}

// CreateShareResponse carries the short id and the public link for it.
type CreateShareResponse struct {
	ShortID  string `json:"shortId" example:"aZ3kQ9"`
	ShareURL string `json:"shareUrl" example:"https://giftfndr.example/share/aZ3kQ9"`
}

const (
	msgMissingShareInput = "Missing query or results"
	msgShareFailed       = "Failed to create share"
)

//
// Handlers
//

// CreateShare godoc
// @ID          createShare
// @Summary     Create a share link
// @Description Stores the query and up to six results for seven days and returns a short link.
// @Description Supports idempotency via the Idempotency-Key header (same key → same link).
// @Tags        Shares
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string                        false  "Idempotency key for safe retries"
// @Param       body             body      handlers.CreateShareRequest   true   "Search snapshot"
// @Success     200              {object}  handlers.CreateShareResponse  "Share created"
// @Failure     400              {object}  handlers.ErrorResponse        "Missing query or results"
// @Failure     413              {object}  handlers.ErrorResponse        "Body too large"
// @Failure     429              {object}  handlers.ErrorResponse        "Rate limited"
// @Failure     500              {object}  handlers.ErrorResponse        "Failed to create share"
// @Router      /share [post]
func (h *Handlers) CreateShare(c *gin.Context) {
	var req CreateShareRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMissingShareInput)
		return
	}
	if req.Query == nil || req.Results == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMissingShareInput)
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	rec, replayed, err := h.shareSvc.CreateIdempotent(c.Request.Context(), middleware.ClientKey(c), key, *req.Query, req.Results)
	if err != nil {
		if errors.Is(err, services.ErrInvalidShare) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, msgMissingShareInput)
			return
		}
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeShareFailed, msgShareFailed)
		return
	}

	if replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	ok(c, http.StatusOK, CreateShareResponse{
		ShortID:  rec.ID,
		ShareURL: h.origin(c) + "/share/" + url.PathEscape(rec.ID),
	})
}

// GetShare godoc
// @ID          getShare
// @Summary     Read a share
// @Description Returns the stored query and results for a live share id.
// @Tags        Shares
// @Produce     json
// @Param       id   path      string               true  "Share id (6 alphanumerics)"
// @Success     200  {object}  domain.ShareRecord
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown or expired share"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /share/{id} [get]
func (h *Handlers) GetShare(c *gin.Context) {
	rec, err := h.shareSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "share not found")
			return
		}
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load share")
		return
	}
	ok(c, http.StatusOK, rec)
}

// OpenShare resolves a public share link. Live ids redirect to the app with
// ?share=<id>; anything else redirects to the home page. A miss is a normal
// outcome, not an error.
func (h *Handlers) OpenShare(c *gin.Context) {
	id := c.Param("id")
	home := h.origin(c) + "/"

	if _, err := h.shareSvc.Get(c.Request.Context(), id); err != nil {
		if !errors.Is(err, services.ErrShareNotFound) {
			middleware.LoggerFrom(c).Warn().Err(err).Str("share_id", id).Msg("share lookup failed; redirecting home")
		}
		redirect(c, home)
		return
	}
	redirect(c, home+"?"+url.Values{"share": {id}}.Encode())
}
