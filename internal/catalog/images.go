package catalog

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// fallbackSeed is used when neither the title nor the category is recognized.
const fallbackSeed = "gift"

type keywordRule struct {
	keywords []string
	seed     string
}

type categoryImages struct {
	seed  string
	rules []keywordRule
}

// imageTable is checked in rule order; the first keyword hit wins.
var imageTable = map[string]categoryImages{
	"tech": {seed: "tech", rules: []keywordRule{
		{[]string{"earbuds", "headphones"}, "headphones"},
		{[]string{"charger", "wireless"}, "charger"},
		{[]string{"phone", "smartphone"}, "phone"},
	}},
	"home": {seed: "home", rules: []keywordRule{
		{[]string{"candle", "scented"}, "candle"},
		{[]string{"frame", "photo"}, "frame"},
		{[]string{"plant", "garden"}, "plant"},
	}},
	"wellness": {seed: "wellness", rules: []keywordRule{
		{[]string{"yoga", "mat"}, "yoga"},
		{[]string{"skincare", "beauty"}, "skincare"},
		{[]string{"fitness", "gym"}, "fitness"},
	}},
	"food": {seed: "food", rules: []keywordRule{
		{[]string{"coffee", "tea"}, "coffee"},
		{[]string{"wine", "drink"}, "wine"},
		{[]string{"chocolate", "sweet"}, "chocolate"},
	}},
	"books": {seed: "books"},
	"outdoor": {seed: "outdoor", rules: []keywordRule{
		{[]string{"bottle", "water"}, "bottle"},
		{[]string{"hiking", "camping"}, "hiking"},
	}},
	"fashion": {seed: "fashion"},
	"hobby": {seed: "hobby", rules: []keywordRule{
		{[]string{"puzzle", "game"}, "puzzle"},
		{[]string{"art", "craft"}, "art"},
	}},
	"beauty": {seed: "beauty", rules: []keywordRule{
		{[]string{"skincare", "serum", "moisturiser", "moisturizer"}, "skincare"},
		{[]string{"perfume", "fragrance"}, "perfume"},
	}},
}

// ImageSeed picks the placeholder seed for a (title, category) pair.
func ImageSeed(title, category string) string {
	entry, ok := imageTable[strings.TrimSpace(strings.ToLower(category))]
	if !ok {
		return fallbackSeed
	}
	folded := cases.Fold().String(title)
	for _, r := range entry.rules {
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return r.seed
			}
		}
	}
	return entry.seed
}

// ImageFor returns a placeholder image URL for a suggestion. It is total:
// any input, including empty strings, yields a renderable URL.
func (l *Linker) ImageFor(title, category string) string {
	return l.imageBase + "/" + url.PathEscape(ImageSeed(title, category)) + "/" + imageSize
}
