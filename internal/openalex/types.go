// Package openalex fetches an author's works from the OpenAlex API and maps
// them to canonical publications. It is an enrichment source: failures are
// logged and yield no records.
package openalex

// WorksResponse is the body of GET /works.
type WorksResponse struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}

// Meta carries paging information for a works query.
type Meta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
}

// Work is one OpenAlex work.
type Work struct {
	ID              string       `json:"id"`
	Title           *string      `json:"title"`
	PublicationDate string       `json:"publication_date"`
	DOI             *string      `json:"doi"`
	CitedByCount    int          `json:"cited_by_count"`
	PrimaryLocation *Location    `json:"primary_location"`
	Authorships     []Authorship `json:"authorships"`
	OpenAccess      *OpenAccess  `json:"open_access"`
	Topics          []Topic      `json:"topics"`
}

// Location is where a work is hosted.
type Location struct {
	Source *LocationSource `json:"source"`
}

// LocationSource is the venue of a location.
type LocationSource struct {
	DisplayName string `json:"display_name"`
}

// Authorship links a work to one author.
type Authorship struct {
	Author AuthorRef `json:"author"`
}

// AuthorRef is the abbreviated author inside an authorship.
type AuthorRef struct {
	DisplayName string `json:"display_name"`
}

// OpenAccess describes open-access availability.
type OpenAccess struct {
	OAURL *string `json:"oa_url"`
}

// Topic is a topical label ordered by relevance.
type Topic struct {
	DisplayName string `json:"display_name"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
