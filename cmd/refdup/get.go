package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single reference by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	ref, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "looking up %s: %v", args[0], err)
	}
	if ref == nil {
		exitWithError(ExitDataError, "reference not found: %s (run 'refdup rebuild' if the cache is stale)", args[0])
	}

	if humanOutput {
		fmt.Printf("%s\n", ref.Title)
		fmt.Printf("  ID:      %s\n", ref.ID)
		fmt.Printf("  Year:    %s\n", formatYear(ref.Year))
		if ref.DOI != "" {
			fmt.Printf("  DOI:     %s\n", ref.DOI)
		}
		if ref.PMID != "" {
			fmt.Printf("  PMID:    %s\n", ref.PMID)
		}
		if ref.Venue != "" {
			fmt.Printf("  Venue:   %s\n", ref.Venue)
		}
		if len(ref.Authors) > 0 {
			fmt.Printf("  Authors: %s\n", formatAuthorsShort(ref.Authors, len(ref.Authors)))
		}
	} else {
		outputJSON(ref)
	}
	return nil
}
