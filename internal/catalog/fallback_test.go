package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/giftfndr-backend/internal/domain"
)

func TestFallback_InterpolatesRequest(t *testing.T) {
	l := DefaultLinker()
	got := l.Fallback(domain.GiftRequest{
		Occasion:     "Birthday",
		Relationship: "Mum",
		Interests:    "gardening",
		Budget:       30,
	})

	if len(got) < 3 || len(got) > 9 {
		t.Fatalf("fallback size = %d; want 3..9", len(got))
	}
	first := got[0].Reason
	for _, want := range []string{"gardening", "Birthday", "Mum"} {
		if !strings.Contains(first, want) {
			t.Fatalf("first reason %q missing %q", first, want)
		}
	}
	if !strings.Contains(got[1].Reason, "Mum") {
		t.Fatalf("second reason should mention relationship: %q", got[1].Reason)
	}
}

func TestFallback_EmptyRequestReadsCleanly(t *testing.T) {
	got := DefaultLinker().Fallback(domain.GiftRequest{})
	first := got[0].Reason
	if strings.Contains(first, "  ") || strings.Contains(first, " .") {
		t.Fatalf("empty request produced ragged text: %q", first)
	}
}

func TestFallback_ShapeAndCategories(t *testing.T) {
	got := DefaultLinker().Fallback(domain.GiftRequest{Interests: "x"})
	cats := map[string]bool{}
	for i, s := range got {
		if s.Title == "" || s.Image == "" || s.AffiliateURL == "" {
			t.Fatalf("item %d incomplete: %+v", i, s)
		}
		if !s.Prime || s.EstimatedPrice <= 0 {
			t.Fatalf("item %d bad prime/price: %+v", i, s)
		}
		if !strings.Contains(s.AffiliateURL, "tag="+DefaultAffiliateTag) {
			t.Fatalf("item %d missing affiliate tag: %q", i, s.AffiliateURL)
		}
		if domain.NormalizeCategory(s.Category) != s.Category {
			t.Fatalf("item %d category %q outside vocabulary", i, s.Category)
		}
		cats[s.Category] = true
	}
	if len(cats) < 3 {
		t.Fatalf("fallback should span several categories, got %v", cats)
	}
}

func TestFallback_FreshSliceEachCall(t *testing.T) {
	l := DefaultLinker()
	a := l.Fallback(domain.GiftRequest{Relationship: "Dad"})
	b := l.Fallback(domain.GiftRequest{Relationship: "Dad"})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("fallback not deterministic (-a +b):\n%s", diff)
	}
	a[0].Title = "mutated"
	if b[0].Title == "mutated" {
		t.Fatalf("fallback slices share storage")
	}
}
