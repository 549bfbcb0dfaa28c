// Command kbsync reconciles a corpus of troubleshooting articles with the
// database that serves them and the GitHub Discussions board that mirrors
// them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/kbsync/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
