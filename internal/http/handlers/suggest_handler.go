package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/utils"
)

// maxSuggestBody caps the generate request body. Anything beyond it is
// ignored rather than rejected, like any other unreadable body.
const maxSuggestBody = 16 << 10

//
// DTOs
//

// SuggestRequest documents the generate payload. Every field is optional and
// decoding is lenient: wrong types fall back to defaults instead of failing.
type SuggestRequest struct {
	Occasion     string  `json:"occasion" example:"Birthday"`
	Relationship string  `json:"relationship" example:"Mum"`
	Interests    string  `json:"interests" example:"gardening"`
	Budget       float64 `json:"budget" example:"30"`
}

// SuggestResponse wraps the generated suggestions.
type SuggestResponse struct {
	Results []domain.Suggestion `json:"results"`
}

// decodeGiftRequest extracts a GiftRequest from raw JSON. Bodies that are
// empty, malformed or not an object decode to the zero request with the
// default budget. Non-string text fields are ignored. Budget accepts a
// number or a numeric string; anything else is domain.DefaultBudget.
func decodeGiftRequest(raw []byte) domain.GiftRequest {
	req := domain.GiftRequest{Budget: domain.DefaultBudget}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req
	}
	req.Occasion = textField(fields["occasion"])
	req.Relationship = textField(fields["relationship"])
	req.Interests = textField(fields["interests"])
	req.Budget = budgetField(fields["budget"])
	return req
}

func textField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func budgetField(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return domain.DefaultBudget
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && utils.IsFinite(f) {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return utils.AmountDefault(s, domain.DefaultBudget)
	}
	return domain.DefaultBudget
}

//
// Handlers
//

// Suggest godoc
// @ID          suggestGifts
// @Summary     Generate gift suggestions
// @Description Returns up to nine gift suggestions for the described recipient.
// @Description Always answers 200: when the text-generation service is unavailable
// @Description a curated fallback list is returned instead.
// @Tags        Suggestions
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SuggestRequest   false  "Recipient description (all fields optional)"
// @Success     200   {object}  handlers.SuggestResponse  "Suggestions"
// @Failure     429   {object}  handlers.ErrorResponse    "Rate limited"
// @Router      /suggest [post]
func (h *Handlers) Suggest(c *gin.Context) {
	var raw []byte
	if c.Request.Body != nil {
		raw, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxSuggestBody))
	}
	req := decodeGiftRequest(raw)

	results := h.suggestSvc.Generate(c.Request.Context(), req)
	ok(c, http.StatusOK, SuggestResponse{Results: results})
}
