package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/seojin-dev/cctrim/internal/config"
	"github.com/seojin-dev/cctrim/internal/scan"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify root, count transcripts, show the largest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Root ===")
			checkDir("Claude", cfg.ClaudeRoot)

			fmt.Println("\n=== Transcripts ===")
			sessions, err := scan.Sessions(cfg.ClaudeRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}
			cleaned, err := scan.Cleaned(cfg.ClaudeRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}

			var total int64
			for _, f := range sessions {
				total += f.Size
			}
			fmt.Printf("  Session files:  %d (%s)\n", len(sessions), humanize.Bytes(uint64(total)))
			fmt.Printf("  Cleaned files:  %d\n", len(cleaned))

			if len(sessions) > 0 {
				sort.Slice(sessions, func(i, j int) bool {
					return sessions[i].Size > sessions[j].Size
				})
				n := len(sessions)
				if n > 5 {
					n = 5
				}
				fmt.Println("\n=== Largest sessions ===")
				for _, f := range sessions[:n] {
					fmt.Printf("  %8s  %s\n", humanize.Bytes(uint64(f.Size)), f.Path)
				}
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
