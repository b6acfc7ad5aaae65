// Package domain defines the request, suggestion and share types exchanged
// between the HTTP layer, the suggestion pipeline and the share store.
package domain

import "strings"

// DefaultBudget is used whenever a request carries no usable budget.
const DefaultBudget = 50.0

// GeneralCategory is assigned to suggestions whose category is missing or
// outside the known vocabulary.
const GeneralCategory = "general"

// Categories is the closed category vocabulary the generator is asked to use.
var Categories = []string{
	"tech", "home", "fashion", "hobby", "wellness", "food", "books", "outdoor", "beauty",
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// NormalizeCategory trims and lowercases c and returns it when it belongs to
// the vocabulary; anything else maps to GeneralCategory.
func NormalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if _, ok := categorySet[c]; ok {
		return c
	}
	return GeneralCategory
}

// GiftRequest describes who the gift is for. All fields are optional; Budget
// has already been coerced by the transport layer (see DefaultBudget).
type GiftRequest struct {
	Occasion     string
	Relationship string
	Interests    string
	Budget       float64
}

// RawIdea is one untrusted idea as returned by the text-generation API. Every
// field is optional; nothing is assumed until it is converted to a Suggestion.
type RawIdea struct {
	Title          *string
	Reason         *string
	Keywords       []string
	Category       *string
	EstimatedPrice *float64
}

// Suggestion is a single gift recommendation returned to clients.
//
// Invariants: Title is non-empty, Image and AffiliateURL are absolute URLs,
// EstimatedPrice is > 0 and Category is a vocabulary entry or "general".
type Suggestion struct {
	Title          string  `json:"title"          example:"Scented Candle Set (3-Pack)"`
	Reason         string  `json:"reason"         example:"Relaxing and affordable pick"`
	Image          string  `json:"image"          example:"https://picsum.photos/seed/candle/640/480"`
	AffiliateURL   string  `json:"affiliateUrl"   example:"https://www.amazon.co.uk/s?k=scented+candle+set&tag=giftfndr0d8-21"`
	Prime          bool    `json:"prime"          example:"true"`
	EstimatedPrice float64 `json:"estimatedPrice" example:"18"`
	Category       string  `json:"category"       example:"home"`
}
