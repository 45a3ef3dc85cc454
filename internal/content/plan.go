package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/pubsync/internal/publication"
)

// Action is what the reconciler does with one document.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionUnchanged Action = "unchanged"
	ActionRemove    Action = "remove"
)

// untitledStem names documents whose title slug is empty.
const untitledStem = "untitled"

// FileAction is the planned outcome for a single file.
type FileAction struct {
	Filename string `json:"filename"`
	Action   Action `json:"action"`
	content  []byte
}

// Counts summarizes a plan by action.
type Counts struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// String formats the counts as the sync summary line.
func (c Counts) String() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged, %d removed",
		c.Created, c.Updated, c.Unchanged, c.Removed)
}

// Plan is the minimal set of writes and deletes that converges a directory
// to a publication set. Building a plan only reads the directory.
type Plan struct {
	Dir     string
	Actions []FileAction
}

// NewPlan compares the rendered publications with the documents in dir.
// A missing dir is treated as empty.
//
// Each publication maps to slug(title)+Extension. Files whose bytes already
// match are left alone. Managed files no publication claims are removed;
// files with other extensions are never touched.
func NewPlan(dir string, pubs []publication.Publication) (*Plan, error) {
	existing, err := listDocuments(dir)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Dir: dir}
	claimed := make(map[string]bool, len(pubs))
	for _, p := range pubs {
		name := Filename(p.Title, claimed)
		claimed[name] = true
		content := Render(p)

		if !existing[name] {
			plan.Actions = append(plan.Actions, FileAction{Filename: name, Action: ActionCreate, content: content})
			continue
		}
		delete(existing, name)

		prev, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if bytes.Equal(prev, content) {
			plan.Actions = append(plan.Actions, FileAction{Filename: name, Action: ActionUnchanged})
		} else {
			plan.Actions = append(plan.Actions, FileAction{Filename: name, Action: ActionUpdate, content: content})
		}
	}

	orphans := make([]string, 0, len(existing))
	for name := range existing {
		if strings.HasSuffix(name, Extension) {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		plan.Actions = append(plan.Actions, FileAction{Filename: name, Action: ActionRemove})
	}

	return plan, nil
}

// Filename returns the document name for title. Names already in claimed
// get a numeric suffix so two publications never share a file.
func Filename(title string, claimed map[string]bool) string {
	stem := publication.Slugify(title)
	if stem == "" {
		stem = untitledStem
	}
	name := stem + Extension
	for n := 2; claimed[name]; n++ {
		name = stem + "-" + strconv.Itoa(n) + Extension
	}
	return name
}

// Counts tallies the plan's actions.
func (p *Plan) Counts() Counts {
	var c Counts
	for _, a := range p.Actions {
		switch a.Action {
		case ActionCreate:
			c.Created++
		case ActionUpdate:
			c.Updated++
		case ActionUnchanged:
			c.Unchanged++
		case ActionRemove:
			c.Removed++
		}
	}
	return c
}

// Changes returns the actions that touch the filesystem.
func (p *Plan) Changes() []FileAction {
	var out []FileAction
	for _, a := range p.Actions {
		if a.Action != ActionUnchanged {
			out = append(out, a)
		}
	}
	return out
}

// Apply executes the plan. Unchanged files are not written. Each write
// replaces its file atomically; the first failure aborts, leaving earlier
// files in place.
func (p *Plan) Apply() (Counts, error) {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return Counts{}, fmt.Errorf("creating output directory: %w", err)
	}

	for _, a := range p.Actions {
		path := filepath.Join(p.Dir, a.Filename)
		switch a.Action {
		case ActionCreate, ActionUpdate:
			if err := writeAtomic(path, a.content); err != nil {
				return Counts{}, fmt.Errorf("writing %s: %w", a.Filename, err)
			}
		case ActionRemove:
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return Counts{}, fmt.Errorf("removing %s: %w", a.Filename, err)
			}
		}
	}
	return p.Counts(), nil
}

// listDocuments returns the names of regular files in dir.
func listDocuments(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names[e.Name()] = true
		}
	}
	return names, nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pubsync-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
