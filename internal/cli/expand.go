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
	expandJudgmentID string
	expandProposalID string
	expandForce      bool
)

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand group judgments into per-politician individual judgments",
	Long: `Expand turns group-level judgments into one individual judgment per
group member active on the proposal's decision date. Without a selector every
group judgment is processed; re-running is safe because existing rows are
skipped unless --force is given.

Example:
  councilwatch expand
  councilwatch expand --proposal-id 7f3b...
  councilwatch expand --judgment-id 12ab... --force`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringVar(&expandJudgmentID, "judgment-id", "", "expand a single group judgment")
	expandCmd.Flags().StringVar(&expandProposalID, "proposal-id", "", "expand every group judgment of one proposal")
	expandCmd.Flags().BoolVar(&expandForce, "force", false, "overwrite existing individual judgments")
	expandCmd.MarkFlagsMutuallyExclusive("judgment-id", "proposal-id")
}

func runExpand(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Module.Handler.Expansion.Expand(context.Background(), commands.ExpandCommand{
		GroupJudgmentID: expandJudgmentID,
		ProposalID:      expandProposalID,
		ForceOverwrite:  expandForce,
	})
	if err != nil {
		return err
	}

	fmt.Printf("judgments: %d  members: %d  created: %d  skipped: %d  overwritten: %d  date-unresolved: %d\n",
		result.JudgmentsProcessed, result.MembersFound, result.Created, result.Skipped,
		result.Overwritten, result.DateUnresolved)
	failed := 0
	for _, item := range result.Items {
		if item.Error != "" {
			failed++
			fmt.Fprintf(os.Stderr, "judgment %s: %s\n", item.GroupJudgmentID, item.Error)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "judgment %s: %d members, %d created, %d skipped\n",
				item.GroupJudgmentID, item.Members, item.Created, item.Skipped)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d judgments failed to expand", failed)
	}
	return nil
}
