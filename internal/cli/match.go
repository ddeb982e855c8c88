package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/internal/app/bootstrap"
)

var (
	matchGoverningBodyID int64
	matchDryRun          bool
)

// matchCmd represents the match-groups command
var matchCmd = &cobra.Command{
	Use:   "match-groups",
	Short: "Match pending extracted judgments against known parliamentary groups",
	Long: `Match-groups runs the Bronze-to-Gold pipeline for one governing body:
pending extracted judgments are matched by normalized group name, matched
records are promoted into group judgments, and unmatched names are listed
for review.

With --dry-run the matching results are recorded but no group judgments are
written and no record is marked processed.

Example:
  councilwatch match-groups --governing-body 3
  councilwatch match-groups --governing-body 3 --dry-run`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Int64Var(&matchGoverningBodyID, "governing-body", 0, "governing body id (required)")
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "match without promoting or marking processed")
	_ = matchCmd.MarkFlagRequired("governing-body")
}

func runMatch(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Module.Handler.GroupMatch.MatchGroupJudgments(context.Background(), commands.MatchGroupJudgmentsCommand{
		GoverningBodyID: matchGoverningBodyID,
		DryRun:          matchDryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("total: %d  matched: %d  unmatched: %d  errors: %d  promoted: %d  processed: %d\n",
		result.Total, result.Matched, result.Unmatched, result.Errors, result.Promoted, result.Processed)
	for _, name := range result.UnmatchedNames {
		fmt.Fprintf(os.Stderr, "unmatched group name: %s\n", name)
	}

	// A run that left records behind is a failure for scripting purposes.
	if result.Errors > 0 || result.Unmatched > 0 {
		return fmt.Errorf("matching incomplete: %d unmatched, %d errors", result.Unmatched, result.Errors)
	}
	return nil
}
