package content

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matsen/pubsync/internal/publication"
)

// Frontmatter mirrors the downstream publication collection schema.
type Frontmatter struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Authors      []string `yaml:"authors"`
	Journal      string   `yaml:"journal"`
	PublishDate  string   `yaml:"publishDate"`
	DOI          string   `yaml:"doi"`
	OAURL        string   `yaml:"oaUrl"`
	CitedByCount *int     `yaml:"citedByCount"`
	Tags         []string `yaml:"tags"`
	Draft        *bool    `yaml:"draft"`
}

// Issue is one schema problem in one document.
type Issue struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.File, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.File, i.Field, i.Message)
}

// CheckResult holds the outcome of checking a directory.
type CheckResult struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
}

// OK reports whether no issues were found.
func (r *CheckResult) OK() bool {
	return len(r.Issues) == 0
}

var (
	frontmatterDelim = []byte("---\n")
	suffixPattern    = regexp.MustCompile(`^-[0-9]+$`)
)

// Check validates every managed document in dir.
func Check(dir string) (*CheckResult, error) {
	names, err := listDocuments(dir)
	if err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		if strings.HasSuffix(name, Extension) {
			sorted = append(sorted, name)
		}
	}
	sort.Strings(sorted)

	result := &CheckResult{Issues: []Issue{}}
	for _, name := range sorted {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		result.Checked++
		result.Issues = append(result.Issues, CheckDocument(name, data)...)
	}
	return result, nil
}

// CheckDocument validates a single document's frontmatter and filename.
func CheckDocument(name string, data []byte) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{File: name, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	fm, err := ParseFrontmatter(data)
	if err != nil {
		add("", "%v", err)
		return issues
	}

	if strings.TrimSpace(fm.Title) == "" {
		add("title", "required")
	}
	if strings.TrimSpace(fm.Description) == "" {
		add("description", "required")
	}
	if len(fm.Authors) == 0 {
		add("authors", "at least one author required")
	}
	if strings.TrimSpace(fm.Journal) == "" {
		add("journal", "required")
	}
	if _, err := time.Parse(time.DateOnly, fm.PublishDate); err != nil {
		add("publishDate", "expected YYYY-MM-DD, got %q", fm.PublishDate)
	}
	if fm.DOI != "" && !isAbsoluteURL(fm.DOI) {
		add("doi", "not an absolute URL: %q", fm.DOI)
	}
	if fm.OAURL != "" && !isAbsoluteURL(fm.OAURL) {
		add("oaUrl", "not an absolute URL: %q", fm.OAURL)
	}
	switch {
	case fm.CitedByCount == nil:
		add("citedByCount", "required")
	case *fm.CitedByCount < 0:
		add("citedByCount", "must be >= 0, got %d", *fm.CitedByCount)
	}
	if len(fm.Tags) > publication.MaxTags {
		add("tags", "at most %d allowed, got %d", publication.MaxTags, len(fm.Tags))
	}
	if fm.Draft == nil {
		add("draft", "required")
	}
	if fm.Title != "" && !matchesTitle(name, fm.Title) {
		add("", "filename does not match title slug %q", publication.Slugify(fm.Title))
	}
	return issues
}

// ParseFrontmatter extracts and decodes the YAML block between the leading
// pair of --- lines.
func ParseFrontmatter(data []byte) (*Frontmatter, error) {
	if !bytes.HasPrefix(data, frontmatterDelim) {
		return nil, fmt.Errorf("missing frontmatter")
	}
	body := data[len(frontmatterDelim):]
	end := bytes.Index(body, append([]byte("\n"), frontmatterDelim...))
	if end < 0 {
		if !bytes.HasSuffix(body, []byte("\n---")) {
			return nil, fmt.Errorf("unterminated frontmatter")
		}
		end = len(body) - len("\n---")
	}

	var fm Frontmatter
	if err := yaml.Unmarshal(body[:end+1], &fm); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return &fm, nil
}

// matchesTitle reports whether name is the file the reconciler would
// choose for title, allowing a collision suffix.
func matchesTitle(name, title string) bool {
	stem := strings.TrimSuffix(name, Extension)
	want := publication.Slugify(title)
	if want == "" {
		want = untitledStem
	}
	if stem == want {
		return true
	}
	rest, ok := strings.CutPrefix(stem, want)
	return ok && suffixPattern.MatchString(rest)
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
