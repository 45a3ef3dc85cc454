package orcid

import (
	"regexp"
	"strings"

	"github.com/matsen/pubsync/internal/publication"
)

// JournalArticle is the only work type the sync keeps.
const JournalArticle = "journal-article"

var (
	// bibtexAuthorPattern matches the author field: author = {A and B}
	bibtexAuthorPattern = regexp.MustCompile(`(?i)author\s*=\s*\{([^}]+)\}`)
	bibtexAndPattern    = regexp.MustCompile(`(?i)\s+and\s+`)
)

// MapWork converts a full ORCID work to a publication. The second result is
// false when the work lacks a title or a usable publication year.
func MapWork(work Work) (publication.Publication, bool) {
	var title string
	if work.Title != nil {
		title = strings.TrimSpace(work.Title.Title.text())
	}
	date, ok := parseDate(work.PublicationDate)
	if title == "" || !ok {
		return publication.Publication{}, false
	}

	pub := publication.Publication{
		Title:       title,
		Authors:     parseAuthors(work),
		Journal:     parseJournal(work),
		PublishDate: date,
		DOI:         parseDOI(work.ExternalIDs),
		Source:      publication.SourceRegistry,
	}
	if raw := strings.TrimSpace(work.URL.text()); raw != "" && !publication.IsDOIURL(raw) {
		pub.OAURL = raw
	}
	return pub, true
}

func parseDate(pd *PublicationDate) (publication.PublicationDate, bool) {
	if pd == nil {
		return publication.PublicationDate{}, false
	}
	return publication.NewDate(pd.Year.text(), pd.Month.text(), pd.Day.text())
}

// parseDOI returns the work's own DOI in URL form. Identifiers with any
// relationship other than "self" belong to related works and are ignored.
func parseDOI(ids *ExternalIDs) string {
	if ids == nil {
		return ""
	}
	for _, id := range ids.ExternalID {
		if strings.EqualFold(id.Type, "doi") && strings.EqualFold(id.Relationship, "self") {
			return publication.FormatDOIURL(id.Value)
		}
	}
	return ""
}

func parseJournal(work Work) string {
	if j := strings.TrimSpace(work.JournalTitle.text()); j != "" {
		return j
	}
	if work.Title != nil {
		return strings.TrimSpace(work.Title.Subtitle.text())
	}
	return ""
}

// parseAuthors prefers structured contributors and falls back to the
// author field of an embedded BibTeX citation.
func parseAuthors(work Work) []string {
	var authors []string
	if work.Contributors != nil {
		for _, c := range work.Contributors.Contributor {
			if name := strings.TrimSpace(c.CreditName.text()); name != "" {
				authors = append(authors, name)
			}
		}
	}
	if len(authors) > 0 {
		return authors
	}

	if work.Citation != nil && strings.EqualFold(work.Citation.Type, "bibtex") {
		return parseBibTeXAuthors(work.Citation.Value)
	}
	return nil
}

// parseBibTeXAuthors extracts names from a BibTeX author = {...} field.
func parseBibTeXAuthors(bibtex string) []string {
	matches := bibtexAuthorPattern.FindStringSubmatch(bibtex)
	if len(matches) < 2 {
		return nil
	}
	var authors []string
	for _, name := range bibtexAndPattern.Split(matches[1], -1) {
		if name = strings.TrimSpace(name); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// journalArticleCodes returns the put-codes of groups whose preferred
// summary is a journal article, in listing order.
func journalArticleCodes(groups []WorkGroup) []int64 {
	var codes []int64
	for _, g := range groups {
		if len(g.WorkSummary) == 0 {
			continue
		}
		if s := g.WorkSummary[0]; s.Type == JournalArticle {
			codes = append(codes, s.PutCode)
		}
	}
	return codes
}
