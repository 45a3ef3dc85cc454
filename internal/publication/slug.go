package publication

import (
	"regexp"
	"strings"
)

// MaxSlugLen is the maximum length of a title slug.
const MaxSlugLen = 80

// slugSpace lists ASCII whitespace, every Unicode separator (Zs, Zl, Zp) and
// the byte order mark. RE2's \s is ASCII only and would delete no-break and
// thin spaces instead of hyphenating them.
const slugSpace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	slugStripPattern      = regexp.MustCompile(`[^a-z0-9` + slugSpace + `-]`)
	slugWhitespacePattern = regexp.MustCompile(`[` + slugSpace + `]+`)
	slugHyphenPattern     = regexp.MustCompile(`-+`)
)

// Slugify derives a filesystem-safe identifier from a title. Characters
// outside [a-z0-9], whitespace and '-' are dropped after lowercasing,
// whitespace runs become a single hyphen, repeated hyphens collapse, the
// result is cut to MaxSlugLen and a trailing hyphen is trimmed.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugWhitespacePattern.ReplaceAllString(s, "-")
	s = slugHyphenPattern.ReplaceAllString(s, "-")
	if len(s) > MaxSlugLen {
		s = s[:MaxSlugLen]
	}
	return strings.TrimSuffix(s, "-")
}
