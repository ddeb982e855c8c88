package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/internal/app/bootstrap"
)

var rollcallProposalID string

// rollcallCmd represents the roll-call command group
var rollcallCmd = &cobra.Command{
	Use:   "roll-call",
	Short: "Apply roll-call results and inspect defections",
}

// rollcallApplyCmd applies a roll-call CSV to a proposal
var rollcallApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a roll-call CSV (politician_id,judgment per line) to a proposal",
	Long: `Apply parses a roll-call file and overrides the expanded individual
judgments with the authoritative per-politician votes, recomputing defection
status against each member's group judgment.

The whole file is validated before anything is written: an unknown judgment
label or a duplicated politician id rejects the entire roll call.

Example:
  councilwatch roll-call apply votes.csv --proposal-id 7f3b...`,
	Args: cobra.ExactArgs(1),
	RunE: runRollCallApply,
}

// rollcallDefectionsCmd reports defections without writing anything
var rollcallDefectionsCmd = &cobra.Command{
	Use:   "defections",
	Short: "List politicians whose stored vote differs from their group's judgment",
	RunE:  runRollCallDefections,
}

func init() {
	rootCmd.AddCommand(rollcallCmd)
	rollcallCmd.AddCommand(rollcallApplyCmd)
	rollcallCmd.AddCommand(rollcallDefectionsCmd)

	rollcallCmd.PersistentFlags().StringVar(&rollcallProposalID, "proposal-id", "", "proposal id (required)")
	_ = rollcallCmd.MarkPersistentFlagRequired("proposal-id")
}

func runRollCallApply(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read roll call file: %w", err)
	}
	votes, err := commands.ParseRollCall(string(data))
	if err != nil {
		return err
	}

	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Module.Handler.RollCall.ApplyRollCall(context.Background(), commands.ApplyRollCallCommand{
		ProposalID: rollcallProposalID,
		Votes:      votes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created: %d  updated: %d  defections: %d\n",
		result.Created, result.Updated, len(result.Defections))
	for _, d := range result.Defections {
		fmt.Printf("defection: %s (%d) voted %s against %s of %s\n",
			d.PoliticianName, d.PoliticianID, d.IndividualVote, d.GroupJudgment, d.GroupName)
	}
	return nil
}

func runRollCallDefections(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	defections, err := app.Module.Handler.Defections.DetectDefections(context.Background(), rollcallProposalID)
	if err != nil {
		return err
	}

	if len(defections) == 0 {
		fmt.Println("no defections")
		return nil
	}
	for _, d := range defections {
		fmt.Printf("%s (%d): voted %s, group %s voted %s\n",
			d.PoliticianName, d.PoliticianID, d.IndividualVote, d.GroupName, d.GroupJudgment)
	}
	return nil
}
