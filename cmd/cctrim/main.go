package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "cctrim",
		Short:   "Trim Claude Code session transcripts for cheaper resume",
		Version: version,
	}

	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
