// Package publication defines the canonical publication record shared by the
// source adapters, the reconciliation engine and the content writer.
package publication

// Source identifies which external system a record came from.
type Source string

const (
	// SourceRegistry marks records fetched from ORCID.
	SourceRegistry Source = "registry"
	// SourceIndex marks records fetched from OpenAlex, and merged records
	// that OpenAlex contributed to.
	SourceIndex Source = "index"
)

// UnknownJournal is rendered when no source supplied a journal name.
const UnknownJournal = "Unknown Journal"

// MaxTags is the number of topical labels kept per publication.
const MaxTags = 3

// Publication is a journal article in canonical form.
//
// Empty DOI, OAURL and Journal mean the value is absent. DOI, when set, is
// always of the form https://doi.org/<suffix>.
type Publication struct {
	Title        string          `json:"title"`
	Authors      []string        `json:"authors"`
	Journal      string          `json:"journal,omitempty"`
	PublishDate  PublicationDate `json:"publish_date"`
	DOI          string          `json:"doi,omitempty"`
	OAURL        string          `json:"oa_url,omitempty"`
	CitedByCount int             `json:"cited_by_count"`
	Tags         []string        `json:"tags,omitempty"`
	Source       Source          `json:"source"`
}

// JournalOrUnknown returns the journal name, or UnknownJournal when absent.
func (p Publication) JournalOrUnknown() string {
	if p.Journal == "" {
		return UnknownJournal
	}
	return p.Journal
}

// Slug returns the slug of the publication title.
func (p Publication) Slug() string {
	return Slugify(p.Title)
}

// DOIKey returns the normalized DOI used for deduplication, or "" when the
// publication has no DOI.
func (p Publication) DOIKey() string {
	if p.DOI == "" {
		return ""
	}
	return NormalizeDOI(p.DOI)
}
