package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document from the knowledge base",
	Long: `Removes all chunks from the vector index. The index can then be
rebuilt with a different embedding model.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	if !clearForce {
		cmd.Print("Remove all documents from the knowledge base? [y/N] ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	deleted, err := ragService.ClearIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	cmd.Printf("Deleted %d chunk(s)\n", deleted)
	return nil
}
