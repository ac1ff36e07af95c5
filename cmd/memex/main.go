package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(rootCmd, os.Stderr))
}

// run executes the command and reports its error on errOut; with
// SilenceErrors set, cobra leaves the printing to us.
func run(cmd *cobra.Command, errOut io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}
