package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf...]",
	Short: "Add PDF documents to the knowledge base",
	Long: `Converts one or more PDF files to text, chunks them, embeds the
chunks, and stores them in the local vector index.

Re-ingesting a file replaces its previous chunks. One unreadable file
never aborts the rest of the batch; each file gets its own line in the
report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "document type tag stored with each document")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	report := ingestService.AddBatch(cmd.Context(), args, ingestType)

	for _, r := range report.Results {
		if r.OK() {
			cmd.Printf("  ok   %s (%d chunks)\n", r.DocumentID, r.Chunks)
		} else {
			cmd.Printf("  FAIL %s: %v\n", r.Source, r.Err)
		}
	}
	cmd.Printf("\n%d ingested, %d failed\n", report.Succeeded(), report.Failed())

	if report.Succeeded() == 0 {
		return fmt.Errorf("no documents ingested")
	}
	return nil
}
