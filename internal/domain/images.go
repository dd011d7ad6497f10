package domain

import "strings"

// DefaultImageBaseURL is the TMDB image CDN
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/"

// Image sizes used by the front ends
const (
	SizeThumb    = "w92"
	SizeCard     = "w500"
	SizeCast     = "w185"
	SizeProfile  = "h632"
	SizeBackdrop = "original"
)

// ImageURL builds a CDN URL for a poster/profile/backdrop path.
// An empty path yields an empty URL so callers render a text fallback.
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + size + path
}
