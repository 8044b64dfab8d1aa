package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite query cache from refs.jsonl",
	Long: `Rebuild the SQLite query cache from refs.jsonl.

The cache is ephemeral and safe to delete; refs.jsonl is the source of truth.
Run this after editing refs.jsonl by hand or after a merge.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	start := time.Now()
	count, err := db.RebuildFromJSONL(config.RefsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding cache: %v", err)
	}
	log.WithFields(log.Fields{"refs": count, "elapsed": time.Since(start)}).
		Debug("rebuilt cache")

	if humanOutput {
		fmt.Printf("Rebuilt cache with %d references\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Count: count})
	}
	return nil
}
