package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/seojin-dev/cctrim/internal/clean"
	"github.com/seojin-dev/cctrim/internal/config"
	"github.com/spf13/cobra"
)

func cleanCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "clean <session.jsonl>",
		Short: "Clean one session transcript into a smaller copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			src, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			res, err := clean.CleanFile(src, output)
			if err != nil {
				return fmt.Errorf("clean: %w", err)
			}

			printResult(res, src)

			resume := "claude --resume " + res.SessionID
			fmt.Printf("\nTo resume the cleaned session:\n   %s\n", resume)
			if cfg.Clipboard {
				if err := clipboard.WriteAll(resume); err == nil {
					fmt.Println("Copied to clipboard.")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: derived next to the input)")
	return cmd
}

func printResult(res *clean.Result, src string) {
	fmt.Printf("Source: %s\n", src)
	fmt.Printf("Output: %s\n", res.OutputPath)
	fmt.Println("\nCleaning statistics:")
	res.Stats.WriteSummary(os.Stdout)
	fmt.Printf("\nTotal saved: %s bytes (%s)\n",
		humanize.Comma(int64(res.Stats.TotalSaved())),
		humanize.Bytes(uint64(res.Stats.TotalSaved())))
	fmt.Printf("Original size: %s bytes\n", humanize.Comma(res.InputBytes))
	if res.InputBytes > 0 {
		fmt.Printf("New size: %s bytes (%.1f%% reduction)\n",
			humanize.Comma(res.OutputBytes),
			100*(1-float64(res.OutputBytes)/float64(res.InputBytes)))
	}
}
