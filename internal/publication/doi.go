package publication

import (
	"net/url"
	"regexp"
	"strings"
)

// DOIResolver is the prefix of the canonical DOI URL form.
const DOIResolver = "https://doi.org/"

// doiPrefixPattern matches resolver URLs and the "doi:" scheme, case-insensitively.
var doiPrefixPattern = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi\.org/|doi:\s*)`)

// stripDOIPrefix removes any resolver prefix, leaving the bare DOI suffix.
func stripDOIPrefix(doi string) string {
	return doiPrefixPattern.ReplaceAllString(strings.TrimSpace(doi), "")
}

// NormalizeDOI returns the DOI key used for comparison: lowercase, without
// any resolver prefix.
func NormalizeDOI(doi string) string {
	return strings.ToLower(strings.TrimSpace(stripDOIPrefix(doi)))
}

// FormatDOIURL converts a bare DOI or any resolver URL to the canonical
// https://doi.org/<suffix> form. Returns "" for an empty DOI.
func FormatDOIURL(doi string) string {
	suffix := strings.TrimSpace(stripDOIPrefix(doi))
	if suffix == "" {
		return ""
	}
	return DOIResolver + suffix
}

// IsDOIURL reports whether rawURL points at a DOI resolver (doi.org or
// dx.doi.org) rather than a landing page.
func IsDOIURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "doi.org" || host == "dx.doi.org"
}
