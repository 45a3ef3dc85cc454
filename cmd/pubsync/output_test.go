package main

import (
	"strings"
	"testing"
	"time"

	"github.com/matsen/pubsync/internal/content"
	"github.com/matsen/pubsync/internal/ledger"
)

func TestProgressLine(t *testing.T) {
	tests := []struct {
		action content.Action
		dryRun bool
		want   string
	}{
		{content.ActionCreate, false, "Created: a.mdx"},
		{content.ActionUpdate, false, "Updated: a.mdx"},
		{content.ActionRemove, false, "Removed: a.mdx"},
		{content.ActionCreate, true, "Would create: a.mdx"},
		{content.ActionUpdate, true, "Would update: a.mdx"},
		{content.ActionRemove, true, "Would remove: a.mdx"},
	}

	for _, tt := range tests {
		got := progressLine(content.FileAction{Filename: "a.mdx", Action: tt.action}, tt.dryRun)
		if got != tt.want {
			t.Errorf("progressLine(%s, %v) = %q, want %q", tt.action, tt.dryRun, got, tt.want)
		}
	}
}

func TestFormatRun(t *testing.T) {
	r := ledger.Run{
		ID:            "0f8c2a1e-5b7d-4c3a-9e21-7a6b5c4d3e2f",
		StartedAt:     time.Now().Add(-3 * time.Hour),
		RegistryCount: 1200,
		IndexCount:    1100,
		MergedCount:   1250,
		Created:       2,
		Updated:       1,
		Unchanged:     1246,
		Removed:       1,
		IndexSkipped:  true,
		DryRun:        true,
	}

	got := formatRun(r)
	for _, want := range []string{
		"3 hours ago",
		"0f8c2a1e ",
		"2 created, 1 updated, 1246 unchanged, 1 removed",
		"1,250 publications from 1,200 ORCID + 1,100 OpenAlex",
		"[OpenAlex skipped]",
		"[dry run]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatRun() = %q, missing %q", got, want)
		}
	}
}

func TestFileLine(t *testing.T) {
	got := fileLine(ledger.FileLine{Filename: "old-paper.mdx", Action: string(content.ActionRemove)})
	if want := "Removed: old-paper.mdx"; got != want {
		t.Errorf("fileLine() = %q, want %q", got, want)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID(0123456789) = %q", got)
	}
}
