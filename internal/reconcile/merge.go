package reconcile

import (
	"slices"

	"github.com/matsen/pubsync/internal/publication"
)

// Merge combines the registry and index records for one publication. Either
// may be nil; a lone record passes through unchanged. When both are present
// the index record wins every field it actually fills, except that a
// January 1st index date yields to a more specific registry date. The result
// is tagged SourceIndex whenever the index contributed.
func Merge(registry, index *publication.Publication) publication.Publication {
	switch {
	case registry == nil && index == nil:
		return publication.Publication{}
	case index == nil:
		return clone(*registry)
	case registry == nil:
		return clone(*index)
	}

	merged := publication.Publication{
		Title:        index.Title,
		Authors:      index.Authors,
		Journal:      index.Journal,
		PublishDate:  index.PublishDate,
		DOI:          index.DOI,
		OAURL:        index.OAURL,
		CitedByCount: index.CitedByCount,
		Tags:         index.Tags,
		Source:       publication.SourceIndex,
	}

	if len(index.Authors) < len(registry.Authors) {
		merged.Authors = registry.Authors
	}
	if merged.Journal == "" {
		merged.Journal = registry.Journal
	}
	if index.PublishDate.IsJanFirst() && !registry.PublishDate.IsJanFirst() {
		merged.PublishDate = registry.PublishDate
	}
	if merged.DOI == "" {
		merged.DOI = registry.DOI
	}
	if merged.OAURL == "" {
		merged.OAURL = registry.OAURL
	}
	if len(merged.Tags) == 0 {
		merged.Tags = registry.Tags
	}

	return clone(merged)
}

// clone copies p so the result shares no slices with the inputs.
func clone(p publication.Publication) publication.Publication {
	p.Authors = slices.Clone(p.Authors)
	p.Tags = slices.Clone(p.Tags)
	return p
}
