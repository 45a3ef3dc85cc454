package openalex

import (
	"strings"

	"github.com/matsen/pubsync/internal/publication"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// MapWork converts an OpenAlex work to a publication. The second result is
// false when the work lacks a title or a parsable publication date.
func MapWork(work Work) (publication.Publication, bool) {
	title := strings.TrimSpace(deref(work.Title))
	date, ok := publication.ParseDate(work.PublicationDate)
	if title == "" || !ok {
		return publication.Publication{}, false
	}

	pub := publication.Publication{
		Title:        title,
		Authors:      mapAuthors(work.Authorships),
		PublishDate:  date,
		DOI:          publication.FormatDOIURL(deref(work.DOI)),
		CitedByCount: max(work.CitedByCount, 0),
		Tags:         mapTags(work.Topics),
		Source:       publication.SourceIndex,
	}
	if work.PrimaryLocation != nil && work.PrimaryLocation.Source != nil {
		pub.Journal = strings.TrimSpace(work.PrimaryLocation.Source.DisplayName)
	}
	if work.OpenAccess != nil {
		if raw := strings.TrimSpace(deref(work.OpenAccess.OAURL)); raw != "" && !publication.IsDOIURL(raw) {
			pub.OAURL = raw
		}
	}
	return pub, true
}

func mapAuthors(authorships []Authorship) []string {
	authors := make([]string, 0, len(authorships))
	for _, a := range authorships {
		if name := strings.TrimSpace(a.Author.DisplayName); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// mapTags keeps the first MaxTags topic names, lowercased.
func mapTags(topics []Topic) []string {
	var tags []string
	for _, t := range topics {
		if len(tags) == publication.MaxTags {
			break
		}
		if name := strings.TrimSpace(t.DisplayName); name != "" {
			tags = append(tags, lowerCaser.String(name))
		}
	}
	return tags
}
