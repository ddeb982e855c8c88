package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/internal/app/bootstrap"
)

var importChunkSize int

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import proposals from a tabular CSV export",
	Long: `Import reads a positional CSV export of proposals and loads them,
deduplicating against existing rows by business key or external id. Rows
that already exist are skipped; missing dates on an existing row are
backfilled from the incoming record.

Columns, in order:
  governing_body_id, session_number, proposal_number, proposal_type,
  title, external_id, submitted_date, voted_date

Example:
  councilwatch import proposals.csv
  councilwatch import proposals.csv --chunk-size 500`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().IntVar(&importChunkSize, "chunk-size", 0, "records per write batch (0 uses the configured default)")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	records, err := commands.ParseProposalRows(rows)
	if err != nil {
		return err
	}

	app, err := bootstrap.Build()
	if err != nil {
		return err
	}
	defer app.Close()

	chunk := importChunkSize
	if chunk <= 0 {
		chunk = app.Config.ImportChunkSize
	}
	result, err := app.Module.Handler.Import.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records:   records,
		ChunkSize: chunk,
	})
	if err != nil {
		return err
	}

	fmt.Printf("total: %d  created: %d  skipped: %d  updated: %d  errors: %d\n",
		result.Total, result.Created, result.Skipped, result.Updated, result.Errors)
	if result.Errors > 0 {
		return fmt.Errorf("%d records failed to import", result.Errors)
	}
	return nil
}
