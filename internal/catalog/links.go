// Package catalog derives display assets for suggestions: placeholder image
// URLs, affiliate search links and the static fallback catalog.
//
// Everything here is pure and deterministic. No function in this package
// performs network I/O or can fail; malformed configuration degrades to the
// built-in defaults.
package catalog

import (
	"net/url"
	"strings"
)

const (
	DefaultImageBaseURL = "https://picsum.photos/seed"
	DefaultSearchURL    = "https://www.amazon.co.uk/s"
	DefaultAffiliateTag = "giftfndr0d8-21"

	imageSize = "640/480"
)

// Linker builds image and affiliate URLs for suggestion titles.
// A Linker is immutable after construction and safe for concurrent use.
type Linker struct {
	imageBase string
	search    *url.URL
	tag       string
}

// NewLinker returns a Linker. Empty or unparsable arguments fall back to the
// package defaults; an empty tag omits the referral parameter.
func NewLinker(imageBaseURL, searchURL, affiliateTag string) *Linker {
	base := strings.TrimRight(strings.TrimSpace(imageBaseURL), "/")
	if !isAbsolute(base) {
		base = DefaultImageBaseURL
	}
	su, err := url.Parse(strings.TrimSpace(searchURL))
	if err != nil || su.Scheme == "" || su.Host == "" {
		su, _ = url.Parse(DefaultSearchURL)
	}
	return &Linker{
		imageBase: base,
		search:    su,
		tag:       strings.TrimSpace(affiliateTag),
	}
}

// DefaultLinker uses the production retailer, image service and tag.
func DefaultLinker() *Linker {
	return NewLinker(DefaultImageBaseURL, DefaultSearchURL, DefaultAffiliateTag)
}

// AffiliateURLFor returns a retailer search URL for title with the referral
// tag appended.
func (l *Linker) AffiliateURLFor(title string) string {
	u := *l.search
	q := url.Values{}
	q.Set("k", strings.TrimSpace(title))
	if l.tag != "" {
		q.Set("tag", l.tag)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Tag returns the configured referral tag.
func (l *Linker) Tag() string { return l.tag }

func isAbsolute(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
