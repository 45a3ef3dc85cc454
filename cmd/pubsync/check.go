package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/pubsync/internal/config"
	"github.com/matsen/pubsync/internal/content"
)

var checkOutputDir string

func init() {
	checkCmd.Flags().StringVarP(&checkOutputDir, "output-dir", "o", "", "Content directory (overrides output_dir)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate content files against the publication schema",
	Long: `Validate every .mdx file in the content directory: the frontmatter must
parse, carry every required field with a valid value, and the filename must
match the slug of the title.

Exits with code 5 when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResponse is the JSON output of the check command.
type CheckResponse struct {
	Status string `json:"status"`
	Dir    string `json:"dir"`
	*content.CheckResult
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	dir := cfg.OutputDir
	if checkOutputDir != "" {
		dir = config.ExpandPath(checkOutputDir)
	}

	result, err := content.Check(dir)
	if err != nil {
		exitWithError(ExitError, "checking %s: %v", dir, err)
	}

	status := "ok"
	if !result.OK() {
		status = "fail"
	}

	if jsonOutput {
		outputJSON(CheckResponse{Status: status, Dir: dir, CheckResult: result})
	} else {
		for _, issue := range result.Issues {
			outputHuman("%s\n", issue)
		}
		outputHuman("Checked %d files: %d issues\n", result.Checked, len(result.Issues))
	}

	if !result.OK() {
		os.Exit(ExitDataError)
	}
	return nil
}
