// Package content renders publications as MDX frontmatter documents and
// converges a directory of such documents to a computed set.
package content

import (
	"strconv"
	"strings"

	"github.com/matsen/pubsync/internal/publication"
)

// Extension is the file extension of managed documents.
const Extension = ".mdx"

// unknownAuthor is written when a publication has no authors, since the
// downstream schema requires a non-empty list.
const unknownAuthor = "Unknown"

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a double-quoted YAML scalar.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// Render serializes p as MDX frontmatter. Field order is fixed so the output
// only changes when the publication does.
func Render(p publication.Publication) []byte {
	var b strings.Builder
	line := func(parts ...string) {
		for _, s := range parts {
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}

	line("---")
	line("title: ", quote(p.Title))
	line("description: ", quote(p.Title))
	line("authors:")
	if len(p.Authors) == 0 {
		line("  - ", quote(unknownAuthor))
	}
	for _, a := range p.Authors {
		line("  - ", quote(a))
	}
	line("journal: ", quote(p.JournalOrUnknown()))
	line("publishDate: ", p.PublishDate.String())
	if p.DOI != "" {
		line("doi: ", quote(p.DOI))
	}
	if p.OAURL != "" {
		line("oaUrl: ", quote(p.OAURL))
	}
	line("citedByCount: ", strconv.Itoa(p.CitedByCount))
	if len(p.Tags) > 0 {
		line("tags:")
		for _, t := range p.Tags {
			line("  - ", quote(t))
		}
	}
	line("draft: false")
	line("---")
	return []byte(b.String())
}
