// Package reconcile identifies registry and index records that describe the
// same publication and merges each such group into one record.
package reconcile

import "github.com/matsen/pubsync/internal/publication"

// Group pairs at most one registry record with at most one index record
// believed to be the same publication.
type Group struct {
	Registry *publication.Publication
	Index    *publication.Publication
}

// Merge resolves the group into a single publication.
func (g *Group) Merge() publication.Publication {
	return Merge(g.Registry, g.Index)
}

// doiKey returns the registry member's DOI key, else the index member's.
func (g *Group) doiKey() string {
	if g.Registry != nil && g.Registry.DOI != "" {
		return g.Registry.DOIKey()
	}
	if g.Index != nil {
		return g.Index.DOIKey()
	}
	return ""
}

// slugs returns the title slugs of the group's members.
func (g *Group) slugs() []string {
	var out []string
	for _, p := range []*publication.Publication{g.Registry, g.Index} {
		if p != nil {
			out = append(out, p.Slug())
		}
	}
	return out
}

// entry is one input record tagged with the list it came from.
type entry struct {
	pub    publication.Publication
	source publication.Source
}

// groupIndex keys groups and remembers first-encounter order.
type groupIndex struct {
	keys   []string
	groups map[string]*Group
}

func newGroupIndex() *groupIndex {
	return &groupIndex{groups: make(map[string]*Group)}
}

// add files e under key. A second record from the same source replaces the first.
func (gi *groupIndex) add(key string, e entry) {
	g, ok := gi.groups[key]
	if !ok {
		g = &Group{}
		gi.groups[key] = g
		gi.keys = append(gi.keys, key)
	}
	p := e.pub
	if e.source == publication.SourceIndex {
		g.Index = &p
	} else {
		g.Registry = &p
	}
}

// Reconcile merges the registry and index lists into one list with a single
// record per publication.
//
// Records sharing a DOI key are grouped first. Every slug and DOI a DOI group
// touches is marked seen. Remaining records are then grouped by title slug;
// a slug group is skipped when its slug or its DOI was already seen, so a
// record matched through its DOI under a different title is never emitted
// twice. Output holds DOI groups in encounter order, then slug groups.
func Reconcile(registry, index []publication.Publication) []publication.Publication {
	entries := make([]entry, 0, len(registry)+len(index))
	for _, p := range registry {
		entries = append(entries, entry{pub: p, source: publication.SourceRegistry})
	}
	for _, p := range index {
		entries = append(entries, entry{pub: p, source: publication.SourceIndex})
	}

	byDOI := newGroupIndex()
	bySlug := newGroupIndex()
	for _, e := range entries {
		if key := e.pub.DOIKey(); key != "" {
			byDOI.add(key, e)
		}
		bySlug.add(e.pub.Slug(), e)
	}

	seenDOIs := make(map[string]bool)
	seenSlugs := make(map[string]bool)
	result := make([]publication.Publication, 0, len(byDOI.keys)+len(bySlug.keys))

	for _, key := range byDOI.keys {
		g := byDOI.groups[key]
		merged := g.Merge()
		seenDOIs[key] = true
		seenSlugs[merged.Slug()] = true
		for _, s := range g.slugs() {
			seenSlugs[s] = true
		}
		result = append(result, merged)
	}

	for _, slug := range bySlug.keys {
		if seenSlugs[slug] {
			continue
		}
		g := bySlug.groups[slug]
		if key := g.doiKey(); key != "" && seenDOIs[key] {
			continue
		}
		seenSlugs[slug] = true
		result = append(result, g.Merge())
	}

	return result
}
