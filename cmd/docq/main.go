// Command docq is a local PDF knowledge base with retrieval-augmented
// question answering, exposed over a CLI and an MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/harborlight/docq/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
