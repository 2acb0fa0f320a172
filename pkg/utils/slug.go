package utils

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns an article title into a URL-safe slug: lowercased, runs of
// non-alphanumerics collapsed to single hyphens, no leading or trailing
// hyphen. Titles with no alphanumerics at all produce an empty slug.
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
