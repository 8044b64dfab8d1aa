package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/reference"
)

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, authors and venues",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

// SearchResult is the response for the search command.
type SearchResult struct {
	Query   string                `json:"query"`
	Results []reference.Reference `json:"results"`
	Count   int                   `json:"count"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	results, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		printReferencesTable(results, SearchTitleMaxLen)
	} else {
		outputJSON(SearchResult{Query: args[0], Results: results, Count: len(results)})
	}
	return nil
}
