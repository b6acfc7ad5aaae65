package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

// maxIdeas caps how many suggestions a single generate call returns.
const maxIdeas = 9

const systemPrompt = "You are GiftFNDR, a crisp, practical gift-matching assistant."

// buildUserPrompt renders the request into the instruction sent alongside
// systemPrompt. Empty fields are replaced with neutral wording so the model
// never sees dangling punctuation.
func buildUserPrompt(req domain.GiftRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gift ideas for %s (%s) who likes %s. Budget £%s (%s). UK.\n\n",
		orDefault(req.Relationship, "someone special"),
		orDefault(req.Occasion, "any occasion"),
		orDefault(req.Interests, "a bit of everything"),
		strconv.FormatFloat(req.Budget, 'f', -1, 64),
		domain.PriceBandFor(req.Budget),
	)
	b.WriteString(`Return JSON: { "ideas": [ { "title": string, "reason": string, "keywords": string[], "category": string, "estimatedPrice": number } ] }` + "\n")
	fmt.Fprintf(&b, "- %d items max\n", maxIdeas)
	b.WriteString("- 'title': specific Amazon searchable product\n")
	b.WriteString("- 'reason': <= 120 chars, persuasive\n")
	fmt.Fprintf(&b, "- 'category': one of %s\n", quoteAll(domain.Categories))
	b.WriteString("- 'estimatedPrice': realistic UK price (number only)\n")
	return b.String()
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func quoteAll(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, ", ")
}
