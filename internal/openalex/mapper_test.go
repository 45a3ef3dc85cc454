package openalex

import (
	"reflect"
	"testing"

	"github.com/matsen/pubsync/internal/publication"
)

func strp(s string) *string { return &s }

func TestMapWork(t *testing.T) {
	work := Work{
		ID:              "https://openalex.org/W1",
		Title:           strp("Bayesian phylogenetics with BEAST"),
		PublicationDate: "2020-06-20",
		DOI:             strp("https://doi.org/10.1093/ve/vey016"),
		CitedByCount:    412,
		PrimaryLocation: &Location{Source: &LocationSource{DisplayName: "Virus Evolution"}},
		Authorships: []Authorship{
			{Author: AuthorRef{DisplayName: "Marc A. Suchard"}},
			{Author: AuthorRef{DisplayName: ""}},
			{Author: AuthorRef{DisplayName: "Philippe Lemey"}},
		},
		OpenAccess: &OpenAccess{OAURL: strp("https://academic.oup.com/ve/article/4/1/vey016/5035211")},
		Topics: []Topic{
			{DisplayName: "Viral Phylodynamics"},
			{DisplayName: "Bayesian Inference"},
			{DisplayName: "Molecular Clock"},
			{DisplayName: "Ignored Fourth"},
		},
	}

	pub, ok := MapWork(work)
	if !ok {
		t.Fatal("MapWork() dropped a valid work")
	}
	want := publication.Publication{
		Title:        "Bayesian phylogenetics with BEAST",
		Authors:      []string{"Marc A. Suchard", "Philippe Lemey"},
		Journal:      "Virus Evolution",
		PublishDate:  publication.PublicationDate{Year: 2020, Month: 6, Day: 20},
		DOI:          "https://doi.org/10.1093/ve/vey016",
		OAURL:        "https://academic.oup.com/ve/article/4/1/vey016/5035211",
		CitedByCount: 412,
		Tags:         []string{"viral phylodynamics", "bayesian inference", "molecular clock"},
		Source:       publication.SourceIndex,
	}
	if !reflect.DeepEqual(pub, want) {
		t.Errorf("MapWork() =\n%+v\nwant\n%+v", pub, want)
	}
}

func TestMapWork_Dropped(t *testing.T) {
	tests := []struct {
		name string
		work Work
	}{
		{"nil title", Work{PublicationDate: "2020-01-01"}},
		{"empty title", Work{Title: strp(""), PublicationDate: "2020-01-01"}},
		{"no date", Work{Title: strp("T")}},
		{"bad date", Work{Title: strp("T"), PublicationDate: "sometime"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := MapWork(tt.work); ok {
				t.Error("MapWork() kept an invalid work")
			}
		})
	}
}

func TestMapWork_OptionalFields(t *testing.T) {
	work := Work{
		Title:           strp("Sparse record"),
		PublicationDate: "2018-01-01",
		PrimaryLocation: &Location{Source: nil},
		OpenAccess:      &OpenAccess{OAURL: strp("https://doi.org/10.1/x")},
	}
	pub, ok := MapWork(work)
	if !ok {
		t.Fatal("dropped")
	}
	if pub.DOI != "" {
		t.Errorf("DOI = %q, want empty", pub.DOI)
	}
	if pub.Journal != "" {
		t.Errorf("Journal = %q, want empty", pub.Journal)
	}
	if pub.OAURL != "" {
		t.Errorf("OAURL = %q, DOI resolver URLs are not open-access links", pub.OAURL)
	}
	if len(pub.Authors) != 0 || len(pub.Tags) != 0 {
		t.Errorf("Authors/Tags = %v/%v, want empty", pub.Authors, pub.Tags)
	}
}

func TestMapWork_BareDOI(t *testing.T) {
	pub, _ := MapWork(Work{Title: strp("T"), PublicationDate: "2019-02-03", DOI: strp("10.1/ABC")})
	if pub.DOI != "https://doi.org/10.1/ABC" {
		t.Errorf("DOI = %q", pub.DOI)
	}
}

func TestMapTags_UnicodeLowercase(t *testing.T) {
	got := mapTags([]Topic{{DisplayName: "ÉVOLUTION Moléculaire"}})
	if want := []string{"évolution moléculaire"}; !reflect.DeepEqual(got, want) {
		t.Errorf("mapTags() = %v, want %v", got, want)
	}
}
