package catalog

import (
	"net/url"
	"strings"
	"testing"
)

func TestImageSeed_Table(t *testing.T) {
	cases := []struct {
		title, category, want string
	}{
		{"Wireless Earbuds with Charging Case", "tech", "headphones"},
		{"Fast Wireless Charger", "tech", "charger"},
		{"Smartphone Tripod", "tech", "phone"},
		{"Mechanical Keyboard", "tech", "tech"},
		{"Scented Candle Set", "home", "candle"},
		{"Personalized PHOTO Frame", "home", "frame"},
		{"Indoor Garden Kit", "home", "plant"},
		{"Throw Blanket", "home", "home"},
		{"Yoga Mat", "wellness", "yoga"},
		{"Gourmet Coffee Set", "food", "coffee"},
		{"Red Wine Glasses", "food", "wine"},
		{"Belgian Chocolate Box", "food", "chocolate"},
		{"Anything At All", "books", "books"},
		{"Insulated Water Bottle", "outdoor", "bottle"},
		{"Camping Lantern", "outdoor", "hiking"},
		{"Silk Scarf", "fashion", "fashion"},
		{"1000 Piece Puzzle", "hobby", "puzzle"},
		{"Watercolour Art Set", "hobby", "art"},
		{"Skincare Gift Set", "beauty", "skincare"},
		{"Lipstick", "beauty", "beauty"},
		{"Skincare Gift Set", " Beauty ", "skincare"},
		{"Wireless Earbuds", "general", fallbackSeed},
		{"", "", fallbackSeed},
		{"Mystery", "gadgets", fallbackSeed},
	}
	for _, tc := range cases {
		if got := ImageSeed(tc.title, tc.category); got != tc.want {
			t.Fatalf("ImageSeed(%q,%q) = %q; want %q", tc.title, tc.category, got, tc.want)
		}
	}
}

func TestImageFor_DeterministicAndTotal(t *testing.T) {
	l := DefaultLinker()
	inputs := [][2]string{
		{"Wireless Earbuds", "tech"},
		{"", ""},
		{"???", "not-a-category"},
		{"Ünïcödé Candle", "home"},
	}
	for _, in := range inputs {
		a := l.ImageFor(in[0], in[1])
		b := l.ImageFor(in[0], in[1])
		if a != b {
			t.Fatalf("ImageFor(%q,%q) not deterministic: %q vs %q", in[0], in[1], a, b)
		}
		u, err := url.Parse(a)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			t.Fatalf("ImageFor(%q,%q) = %q is not an absolute URL", in[0], in[1], a)
		}
	}
	if got := l.ImageFor("Wireless Earbuds", "tech"); got != "https://picsum.photos/seed/headphones/640/480" {
		t.Fatalf("unexpected image url %q", got)
	}
}

func TestNewLinker_FallsBackOnBadConfig(t *testing.T) {
	l := NewLinker("not a url", "::bad", "")
	if got := l.ImageFor("x", "books"); !strings.HasPrefix(got, DefaultImageBaseURL+"/") {
		t.Fatalf("image base not defaulted: %q", got)
	}
	if got := l.AffiliateURLFor("x"); !strings.HasPrefix(got, DefaultSearchURL+"?") {
		t.Fatalf("search url not defaulted: %q", got)
	}
	if strings.Contains(l.AffiliateURLFor("x"), "tag=") {
		t.Fatalf("empty tag must omit the tag parameter")
	}
}

func TestNewLinker_CustomImageBaseTrimsSlash(t *testing.T) {
	l := NewLinker("https://img.example.com/seed/", "", "t")
	if got := l.ImageFor("Yoga Mat", "wellness"); got != "https://img.example.com/seed/yoga/640/480" {
		t.Fatalf("ImageFor = %q", got)
	}
}
