package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
	"github.com/refkit/refdup/internal/reference"
	"github.com/refkit/refdup/internal/storage"
)

var (
	listYear  int
	listLimit int
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listYear, "year", 0, "Only list references published in this year")
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum number of references to list")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List references in the library",
	RunE:  runList,
}

// ListResult is the response for the list command.
type ListResult struct {
	References []reference.Reference `json:"references"`
	Count      int                   `json:"count"`
	Total      int                   `json:"total"`
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	refs, err := storage.ReadAll(config.RefsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading refs: %v", err)
	}
	total := len(refs)

	if cmd.Flags().Changed("year") {
		var filtered []reference.Reference
		for _, ref := range refs {
			if ref.Year != nil && *ref.Year == listYear {
				filtered = append(filtered, ref)
			}
		}
		refs = filtered
	}

	if listLimit > 0 && len(refs) > listLimit {
		refs = refs[:listLimit]
	}

	if humanOutput {
		printReferencesTable(refs, ListTitleMaxLen)
		fmt.Printf("\n%d of %d references\n", len(refs), total)
	} else {
		outputJSON(ListResult{References: refs, Count: len(refs), Total: total})
	}
	return nil
}

// printReferencesTable renders references as a table on stdout.
func printReferencesTable(refs []reference.Reference, titleMaxLen int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Year", "Title", "Authors"})
	for _, ref := range refs {
		t.AppendRow(table.Row{
			ref.ID,
			formatYear(ref.Year),
			truncateString(ref.Title, titleMaxLen),
			formatAuthorsShort(ref.Authors, 2),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
