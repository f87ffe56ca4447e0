package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/seojin-dev/cctrim/internal/clean"
	"github.com/seojin-dev/cctrim/internal/config"
	"github.com/seojin-dev/cctrim/internal/scan"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Clean every session transcript under the Claude projects root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			files, err := scan.Sessions(cfg.ClaudeRoot)
			if err != nil {
				return fmt.Errorf("scan %s: %w", cfg.ClaudeRoot, err)
			}
			if len(files) == 0 {
				fmt.Fprintf(os.Stderr, "No session files under %s\n", cfg.ClaudeRoot)
				return nil
			}

			fmt.Fprintf(os.Stderr, "Cleaning %d sessions under %s\n", len(files), cfg.ClaudeRoot)

			var inTotal, outTotal int64
			failed := 0
			for _, f := range files {
				// one filter per file: seen-result signatures must not leak
				// across sessions
				res, err := clean.CleanFile(f.Path, "")
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "  skip %s: %v\n", f.Path, err)
					continue
				}
				inTotal += res.InputBytes
				outTotal += res.OutputBytes
				fmt.Printf("  %s: %s -> %s\n", res.SessionID,
					humanize.Bytes(uint64(res.InputBytes)),
					humanize.Bytes(uint64(res.OutputBytes)))
			}

			fmt.Printf("\nDone. %d cleaned, %d failed, %s -> %s total\n",
				len(files)-failed, failed,
				humanize.Bytes(uint64(inTotal)), humanize.Bytes(uint64(outTotal)))
			return nil
		},
	}
}
