package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborlight/docq/internal/core/domain"
)

var (
	queryTopK     int
	queryDocType  string
	queryDocument string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Embeds the question, retrieves the most similar passages from the
index, and generates an answer grounded in them, with source citations
and a confidence estimate.

When no stored passage is relevant, docq reports that the knowledge
base has no answer instead of inventing one.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 0, "number of passages to retrieve (0 = default)")
	queryCmd.Flags().StringVarP(&queryDocType, "type", "t", "", "restrict retrieval to this document type")
	queryCmd.Flags().StringVarP(&queryDocument, "document", "d", "", "restrict retrieval to one document ID")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	answer, err := ragService.Query(cmd.Context(), domain.Query{
		Question:     args[0],
		TopK:         queryTopK,
		DocumentType: queryDocType,
		DocumentID:   queryDocument,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Confidence: %.2f", answer.Confidence)
	if answer.Model != "" {
		cmd.Printf("  (model: %s)", answer.Model)
	}
	cmd.Println()

	if len(answer.Sources) > 0 {
		cmd.Println("Sources:")
		for i, src := range answer.Sources {
			line := fmt.Sprintf("  [%d] %s", i+1, src.DocumentID)
			if src.Section != "" {
				line += " - " + src.Section
			}
			cmd.Printf("%s (%.2f)\n", line, src.Similarity)
		}
	}
	return nil
}
