package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
	"github.com/refkit/refdup/internal/importer"
	"github.com/refkit/refdup/internal/reference"
	"github.com/refkit/refdup/internal/storage"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import references from a CSV or RIS export",
	Long: `Import references from an export file into the library.

The format is chosen by file extension (.csv or .ris). Records whose ID
already exists in the library are updated in place; new records are appended.

Examples:
  refdup import screening-batch.csv
  refdup import pubmed-export.ris`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult is the response for the import command.
type ImportResult struct {
	Status   string   `json:"status"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}

	var parsed []reference.Reference
	var parseErrs []error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parsed, parseErrs = importer.ParseCSV(data)
	case ".ris":
		parsed, parseErrs = importer.ParseRIS(data)
	default:
		exitWithError(ExitError, "unsupported file extension: %s (expected .csv or .ris)", filepath.Ext(path))
	}

	log.WithFields(log.Fields{"file": path, "parsed": len(parsed), "errors": len(parseErrs)}).
		Debug("parsed import file")

	refsPath := config.RefsPath(repoRoot)
	existing, err := storage.ReadAll(refsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading refs: %v", err)
	}

	merged, imported, updated := mergeReferences(existing, parsed)
	if err := storage.WriteAll(refsPath, merged); err != nil {
		exitWithError(ExitDataError, "writing refs: %v", err)
	}

	result := ImportResult{
		Status:   "imported",
		Imported: imported,
		Updated:  updated,
		Total:    len(merged),
	}
	for _, e := range parseErrs {
		result.Errors = append(result.Errors, e.Error())
	}

	if humanOutput {
		fmt.Printf("Imported %d new, updated %d (library now %d references)\n",
			imported, updated, len(merged))
		for _, e := range result.Errors {
			fmt.Printf("  skipped: %s\n", e)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// mergeReferences merges incoming references into the existing library by ID:
// known IDs update in place, new IDs append in input order.
func mergeReferences(existing, incoming []reference.Reference) (merged []reference.Reference, imported, updated int) {
	index := make(map[string]int, len(existing))
	merged = make([]reference.Reference, len(existing))
	copy(merged, existing)
	for i, ref := range merged {
		index[ref.ID] = i
	}

	for _, ref := range incoming {
		if i, ok := index[ref.ID]; ok {
			merged[i] = ref
			updated++
			continue
		}
		index[ref.ID] = len(merged)
		merged = append(merged, ref)
		imported++
	}
	return merged, imported, updated
}
