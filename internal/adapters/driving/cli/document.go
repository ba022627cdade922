package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents in the knowledge base",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Print the stored content of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Remove a document and all of its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	docs, err := ragService.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	cmd.Printf("%d document(s):\n", len(docs))
	for _, doc := range docs {
		line := fmt.Sprintf("  %s (%d chunks)", doc.DocumentID, doc.ChunkCount)
		if doc.Type != "" {
			line += " [" + doc.Type + "]"
		}
		cmd.Println(line)
	}
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	content, err := ragService.DocumentContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document content: %w", err)
	}
	cmd.Println(content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	deleted, err := ragService.DeleteDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	cmd.Printf("Deleted %d chunk(s) from %s\n", deleted, args[0])
	return nil
}
