package catalog

import (
	"strings"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

type fallbackItem struct {
	title    string
	search   string
	category string
	price    float64
	reason   func(occasion, relationship, interests string) string
}

var fallbackItems = []fallbackItem{
	{
		title: "Insulated Stainless Water Bottle 750ml", search: "insulated stainless water bottle 750ml",
		category: "outdoor", price: 25,
		reason: func(occasion, relationship, interests string) string {
			return "Great for " + orDefault(interests, "active people") +
				", a perfect " + phrase(occasion) + "gift for your " + orDefault(relationship, "loved one") + "."
		},
	},
	{
		title: "Scented Candle Set (3-Pack)", search: "scented candle set 3 pack",
		category: "home", price: 18,
		reason: func(_, relationship, _ string) string {
			return "Relaxing and affordable pick, an easy win for " + orDefault(relationship, "anyone") + "."
		},
	},
	{
		title: "Wireless Earbuds with Charging Case", search: "wireless earbuds charging case",
		category: "tech", price: 35,
		reason: func(_, relationship, _ string) string {
			return "For a music-loving " + orDefault(relationship, "friend") + ". Solid sound without breaking the bank."
		},
	},
	{
		title: "Personalized Photo Frame", search: "personalized photo frame",
		category: "home", price: 22,
		reason: func(_, relationship, _ string) string {
			return "A thoughtful way to display memories, perfect for " + orDefault(relationship, "someone special") + "."
		},
	},
	{
		title: "Gourmet Coffee Gift Set", search: "gourmet coffee gift set",
		category: "food", price: 28,
		reason: constant("For the coffee lover in your life. Premium beans and accessories."),
	},
	{
		title: "Yoga Mat with Carrying Strap", search: "yoga mat with carrying strap",
		category: "wellness", price: 32,
		reason: constant("Perfect for wellness enthusiasts. Non-slip and portable."),
	},
	{
		title: "Wireless Phone Charger", search: "wireless phone charger",
		category: "tech", price: 45,
		reason: constant("Modern convenience that everyone appreciates."),
	},
	{
		title: "Cookbook Collection", search: "cookbook collection",
		category: "books", price: 20,
		reason: constant("For the home chef. Inspiring recipes and beautiful photography."),
	},
	{
		title: "Skincare Gift Set", search: "skincare gift set",
		category: "beauty", price: 38,
		reason: constant("Luxury skincare products for pampering and self-care."),
	},
}

// Fallback returns the hand-authored catalog used when generation fails.
// Occasion, relationship and interests from req are woven into the reasons
// where present. The result is a fresh slice on every call.
func (l *Linker) Fallback(req domain.GiftRequest) []domain.Suggestion {
	occasion := strings.TrimSpace(req.Occasion)
	relationship := strings.TrimSpace(req.Relationship)
	interests := strings.TrimSpace(req.Interests)

	out := make([]domain.Suggestion, 0, len(fallbackItems))
	for _, it := range fallbackItems {
		out = append(out, domain.Suggestion{
			Title:          it.title,
			Reason:         it.reason(occasion, relationship, interests),
			Image:          l.ImageFor(it.title, it.category),
			AffiliateURL:   l.AffiliateURLFor(it.search),
			Prime:          true,
			EstimatedPrice: it.price,
			Category:       it.category,
		})
	}
	return out
}

func constant(s string) func(string, string, string) string {
	return func(string, string, string) string { return s }
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// phrase renders an optional word followed by a space, or nothing.
func phrase(s string) string {
	if s == "" {
		return ""
	}
	return s + " "
}
