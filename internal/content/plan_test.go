package content

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matsen/pubsync/internal/publication"
)

func pub(title string, cites int) publication.Publication {
	return publication.Publication{
		Title:        title,
		Authors:      []string{"Erick Matsen"},
		Journal:      "Bioinformatics",
		PublishDate:  publication.PublicationDate{Year: 2021, Month: 6, Day: 1},
		CitedByCount: cites,
		Source:       publication.SourceRegistry,
	}
}

// converge plans and applies in one step.
func converge(t *testing.T, dir string, pubs ...publication.Publication) Counts {
	t.Helper()
	plan, err := NewPlan(dir, pubs)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	counts, err := plan.Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return counts
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestApply_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src", "content", "publications")

	counts := converge(t, dir, pub("First paper", 1), pub("Second paper", 2))
	if want := (Counts{Created: 2}); counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "first-paper.mdx"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, Render(pub("First paper", 1))) {
		t.Errorf("first-paper.mdx content =\n%s", data)
	}
	if !exists(filepath.Join(dir, "second-paper.mdx")) {
		t.Error("second-paper.mdx not written")
	}
}

func TestApply_Idempotent(t *testing.T) {
	dir := t.TempDir()
	pubs := []publication.Publication{pub("First paper", 1), pub("Second paper", 2)}

	converge(t, dir, pubs...)
	if counts, want := converge(t, dir, pubs...), (Counts{Unchanged: 2}); counts != want {
		t.Errorf("second run counts = %+v, want %+v", counts, want)
	}
}

func TestApply_UnchangedFileNotRewritten(t *testing.T) {
	dir := t.TempDir()
	converge(t, dir, pub("Stable paper", 5))

	path := filepath.Join(dir, "stable-paper.mdx")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	converge(t, dir, pub("Stable paper", 5))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("unchanged file was rewritten: mtime %v, want %v", info.ModTime(), old)
	}
}

func TestApply_Update(t *testing.T) {
	dir := t.TempDir()
	converge(t, dir, pub("Cited paper", 10))

	if counts, want := converge(t, dir, pub("Cited paper", 11)), (Counts{Updated: 1}); counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cited-paper.mdx"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "citedByCount: 11\n") {
		t.Errorf("updated content =\n%s", data)
	}
}

func TestApply_OrphanCleanup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stale-paper.mdx"), "old")
	writeFile(t, filepath.Join(dir, "notes.md"), "keep me")
	writeFile(t, filepath.Join(dir, "image.png"), "\x89")
	if err := os.Mkdir(filepath.Join(dir, "drafts.mdx"), 0755); err != nil {
		t.Fatal(err)
	}

	if counts, want := converge(t, dir, pub("Current paper", 1)), (Counts{Created: 1, Removed: 1}); counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	if exists(filepath.Join(dir, "stale-paper.mdx")) {
		t.Error("stale-paper.mdx was not removed")
	}
	for _, kept := range []string{"notes.md", "image.png", "drafts.mdx"} {
		if !exists(filepath.Join(dir, kept)) {
			t.Errorf("%s was removed", kept)
		}
	}
}

func TestApply_EmptySetRemovesAllManaged(t *testing.T) {
	dir := t.TempDir()
	converge(t, dir, pub("One", 1), pub("Two", 2))

	if counts, want := converge(t, dir), (Counts{Removed: 2}); counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty: %d entries", len(entries))
	}
}

func TestNewPlan_DoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stale.mdx"), "old")

	plan, err := NewPlan(dir, []publication.Publication{pub("New paper", 1)})
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]Action)
	for _, a := range plan.Actions {
		got[a.Filename] = a.Action
	}
	want := map[string]Action{
		"new-paper.mdx": ActionCreate,
		"stale.mdx":     ActionRemove,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("actions = %v, want %v", got, want)
	}
	if c := plan.Counts(); c != (Counts{Created: 1, Removed: 1}) {
		t.Errorf("Counts() = %+v", c)
	}
	if n := len(plan.Changes()); n != 2 {
		t.Errorf("len(Changes()) = %d, want 2", n)
	}

	if exists(filepath.Join(dir, "new-paper.mdx")) {
		t.Error("planning wrote new-paper.mdx")
	}
	if !exists(filepath.Join(dir, "stale.mdx")) {
		t.Error("planning removed stale.mdx")
	}
}

func TestNewPlan_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	plan, err := NewPlan(dir, []publication.Publication{pub("Paper", 1)})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if c := plan.Counts(); c != (Counts{Created: 1}) {
		t.Errorf("Counts() = %+v", c)
	}
	if exists(dir) {
		t.Error("planning created the directory")
	}
}

func TestNewPlan_SlugCollision(t *testing.T) {
	dir := t.TempDir()
	pubs := []publication.Publication{
		pub("Same Title!", 1),
		pub("Same title", 2),
		pub("same-title", 3),
	}

	plan, err := NewPlan(dir, pubs)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, a := range plan.Actions {
		names = append(names, a.Filename)
	}
	want := []string{"same-title.mdx", "same-title-2.mdx", "same-title-3.mdx"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("filenames = %v, want %v", names, want)
	}

	if _, err := plan.Apply(); err != nil {
		t.Fatal(err)
	}
	if counts := converge(t, dir, pubs...); counts != (Counts{Unchanged: 3}) {
		t.Errorf("rerun counts = %+v, want all unchanged", counts)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title   string
		claimed map[string]bool
		want    string
	}{
		{"A Good Paper", nil, "a-good-paper.mdx"},
		{"!!!", nil, "untitled.mdx"},
		{"A Good Paper", map[string]bool{"a-good-paper.mdx": true}, "a-good-paper-2.mdx"},
		{"X", map[string]bool{"x.mdx": true, "x-2.mdx": true}, "x-3.mdx"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, tt.claimed); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestApply_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	converge(t, dir, pub("Paper A", 1), pub("Paper B", 1))

	matches, err := filepath.Glob(filepath.Join(dir, ".pubsync-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestCounts_String(t *testing.T) {
	c := Counts{Created: 1, Updated: 2, Unchanged: 3, Removed: 4}
	if got, want := c.String(), "1 created, 2 updated, 3 unchanged, 4 removed"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
