package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matsen/pubsync/internal/content"
	"github.com/matsen/pubsync/internal/ledger"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the selected format and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(ErrorResponse{Error: msg})
	} else {
		outputError(code, "%s", msg)
	}
	os.Exit(code)
}

// ErrorResponse is the JSON shape of a fatal error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// progressLine formats one file action the way sync reports it.
func progressLine(a content.FileAction, dryRun bool) string {
	verb := map[content.Action]string{
		content.ActionCreate: "Created",
		content.ActionUpdate: "Updated",
		content.ActionRemove: "Removed",
	}[a.Action]
	if dryRun {
		verb = "Would " + strings.ToLower(strings.TrimSuffix(verb, "d"))
	}
	return verb + ": " + a.Filename
}

// fileLine formats a recorded file action like the sync progress lines.
func fileLine(f ledger.FileLine) string {
	return progressLine(content.FileAction{Filename: f.Filename, Action: content.Action(f.Action)}, false)
}

// formatRun renders one ledger row for `pubsync history`.
func formatRun(r ledger.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %s  %d created, %d updated, %d unchanged, %d removed",
		humanize.Time(r.StartedAt), shortID(r.ID),
		r.Created, r.Updated, r.Unchanged, r.Removed)
	fmt.Fprintf(&b, "  (%s publications from %s ORCID + %s OpenAlex)",
		humanize.Comma(int64(r.MergedCount)),
		humanize.Comma(int64(r.RegistryCount)),
		humanize.Comma(int64(r.IndexCount)))
	if r.IndexSkipped {
		b.WriteString(" [OpenAlex skipped]")
	}
	if r.DryRun {
		b.WriteString(" [dry run]")
	}
	return b.String()
}

// shortID truncates a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
