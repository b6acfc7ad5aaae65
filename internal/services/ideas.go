package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tbourn/giftfndr-backend/internal/domain"
	"github.com/tbourn/giftfndr-backend/internal/utils"
)

// wireIdea mirrors one entry of the "ideas" array. Fields stay raw so a
// single badly typed field does not discard the whole idea.
type wireIdea struct {
	Title          json.RawMessage `json:"title"`
	Reason         json.RawMessage `json:"reason"`
	Keywords       json.RawMessage `json:"keywords"`
	Category       json.RawMessage `json:"category"`
	EstimatedPrice json.RawMessage `json:"estimatedPrice"`
}

// parseIdeas decodes completion content of the form {"ideas":[...]}.
// Content that is not a JSON object, or whose "ideas" is neither absent nor
// an array, is ErrMalformedResponse. Array entries that are not objects are
// skipped.
func parseIdeas(content string) ([]domain.RawIdea, error) {
	var env struct {
		Ideas json.RawMessage `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode completion"), ErrMalformedResponse)
	}
	if isNull(env.Ideas) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env.Ideas, &items); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode ideas"), ErrMalformedResponse)
	}

	out := make([]domain.RawIdea, 0, len(items))
	for _, it := range items {
		var w wireIdea
		if err := json.Unmarshal(it, &w); err != nil {
			continue
		}
		out = append(out, domain.RawIdea{
			Title:          stringField(w.Title),
			Reason:         stringField(w.Reason),
			Keywords:       stringsField(w.Keywords),
			Category:       stringField(w.Category),
			EstimatedPrice: amountField(w.EstimatedPrice),
		})
	}
	return out, nil
}

// toSuggestions converts raw ideas into at most maxIdeas suggestions.
// Ideas without a title are dropped; category and price are defaulted.
func (s *SuggestionService) toSuggestions(raw []domain.RawIdea) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, min(len(raw), maxIdeas))
	for _, r := range raw {
		if len(out) == maxIdeas {
			break
		}
		title := strings.TrimSpace(deref(r.Title))
		if title == "" {
			continue
		}
		category := domain.NormalizeCategory(deref(r.Category))

		price := 0.0
		if r.EstimatedPrice != nil {
			price = *r.EstimatedPrice
		}
		if !(price > 0) || !utils.IsFinite(price) {
			price = s.Price()
		}

		out = append(out, domain.Suggestion{
			Title:          title,
			Reason:         strings.TrimSpace(deref(r.Reason)),
			Image:          s.Links.ImageFor(title, category),
			AffiliateURL:   s.Links.AffiliateURLFor(title),
			Prime:          true,
			EstimatedPrice: price,
			Category:       category,
		})
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func stringField(raw json.RawMessage) *string {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return nil
	}
	return &s
}

func stringsField(raw json.RawMessage) []string {
	var vals []any
	if isNull(raw) || json.Unmarshal(raw, &vals) != nil {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// amountField accepts a JSON number or a numeric string such as "£24.99".
func amountField(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if v, ok := utils.ParseAmount(s); ok {
		return &v
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
