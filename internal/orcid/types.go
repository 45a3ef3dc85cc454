// Package orcid fetches a researcher's journal articles from the ORCID
// public API and maps them to canonical publications.
package orcid

import "encoding/json"

// TextValue is ORCID's wrapper for scalar fields: {"value": "..."}.
type TextValue struct {
	Value string `json:"value"`
}

// text returns the wrapped value, or "" for a null field.
func (v *TextValue) text() string {
	if v == nil {
		return ""
	}
	return v.Value
}

// WorksResponse is the body of GET /{orcid}/works.
type WorksResponse struct {
	Group []WorkGroup `json:"group"`
}

// WorkGroup clusters the summaries ORCID considers the same work.
type WorkGroup struct {
	WorkSummary []WorkSummary `json:"work-summary"`
}

// WorkSummary is the abbreviated work returned in the works listing.
type WorkSummary struct {
	PutCode int64      `json:"put-code"`
	Type    string     `json:"type"`
	Title   *WorkTitle `json:"title"`
}

// BulkResponse is the body of GET /{orcid}/works/{code,code,...}.
type BulkResponse struct {
	Bulk []BulkEntry `json:"bulk"`
}

// BulkEntry holds either a full work or an error for one requested put-code.
type BulkEntry struct {
	Work  *Work           `json:"work"`
	Error json.RawMessage `json:"error"`
}

// Work is a full ORCID work record.
type Work struct {
	PutCode         int64            `json:"put-code"`
	Title           *WorkTitle       `json:"title"`
	JournalTitle    *TextValue       `json:"journal-title"`
	Type            string           `json:"type"`
	PublicationDate *PublicationDate `json:"publication-date"`
	ExternalIDs     *ExternalIDs     `json:"external-ids"`
	Contributors    *Contributors    `json:"contributors"`
	Citation        *Citation        `json:"citation"`
	URL             *TextValue       `json:"url"`
}

// WorkTitle carries the title and optional subtitle.
type WorkTitle struct {
	Title    *TextValue `json:"title"`
	Subtitle *TextValue `json:"subtitle"`
}

// PublicationDate is split into separately nullable parts.
type PublicationDate struct {
	Year  *TextValue `json:"year"`
	Month *TextValue `json:"month"`
	Day   *TextValue `json:"day"`
}

// ExternalIDs lists identifiers attached to a work.
type ExternalIDs struct {
	ExternalID []ExternalID `json:"external-id"`
}

// ExternalID is one identifier. Relationship is "self" for the work's own
// identifier and "part-of" or similar for related works.
type ExternalID struct {
	Type         string `json:"external-id-type"`
	Value        string `json:"external-id-value"`
	Relationship string `json:"external-id-relationship"`
}

// Contributors lists the work's credited contributors.
type Contributors struct {
	Contributor []Contributor `json:"contributor"`
}

// Contributor is one credited contributor.
type Contributor struct {
	CreditName *TextValue `json:"credit-name"`
}

// Citation is an embedded formatted citation (usually BibTeX).
type Citation struct {
	Type  string `json:"citation-type"`
	Value string `json:"citation-value"`
}
