package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/internal/app/bootstrap"
)

var (
	classifyProposalID   string
	classifyConferenceID int64
)

// classifyCmd represents the classify-submitters command
var classifyCmd = &cobra.Command{
	Use:   "classify-submitters <raw-text>",
	Short: "Classify a raw submitter string and register the submitters",
	Long: `Classify-submitters splits a raw submitter string on the usual name
separators, classifies each name (mayor, committee, parliamentary group,
politician, or other), and stores one submitter row per name with its matched
entity when the match is confident enough.

Example:
  councilwatch classify-submitters "田中太郎議員、山田花子議員" --proposal-id 7f3b... --conference 12`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyProposalID, "proposal-id", "", "proposal id (required)")
	classifyCmd.Flags().Int64Var(&classifyConferenceID, "conference", 0, "conference id for politician lookup (required)")
	_ = classifyCmd.MarkFlagRequired("proposal-id")
	_ = classifyCmd.MarkFlagRequired("conference")
}

func runClassify(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Module.Handler.Submitters.RegisterSubmitters(context.Background(), commands.RegisterSubmittersCommand{
		ProposalID:   classifyProposalID,
		ConferenceID: classifyConferenceID,
		RawText:      args[0],
	})
	if err != nil {
		return err
	}

	for _, s := range result.Submitters {
		matched := "-"
		if s.MatchedPoliticianID != nil {
			matched = fmt.Sprintf("politician %d", *s.MatchedPoliticianID)
		} else if s.MatchedGroupID != nil {
			matched = fmt.Sprintf("group %d", *s.MatchedGroupID)
		}
		fmt.Printf("%d. %s  type=%s  confidence=%.2f  matched=%s\n",
			s.DisplayOrder, s.RawName, strings.ToLower(string(s.SubmitterType)), s.Confidence, matched)
	}
	return nil
}
