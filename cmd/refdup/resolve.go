package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
	"github.com/refkit/refdup/internal/storage"
)

var (
	resolveDuplicate bool
	resolveDistinct  bool
	resolveNote      string
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveDuplicate, "duplicate", false, "Record the pair as a confirmed duplicate")
	resolveCmd.Flags().BoolVar(&resolveDistinct, "distinct", false, "Record the pair as distinct works")
	resolveCmd.Flags().StringVar(&resolveNote, "note", "", "Optional note explaining the decision")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <primary-id> <duplicate-id>",
	Short: "Record a verdict for a candidate pair",
	Long: `Record a verdict for a candidate pair in the decisions log.

Exactly one of --duplicate or --distinct is required. Resolved pairs are
hidden from future 'refdup dedupe' runs unless --all is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	if resolveDuplicate == resolveDistinct {
		exitWithError(ExitError, "exactly one of --duplicate or --distinct is required")
	}
	if args[0] == args[1] {
		exitWithError(ExitError, "primary and duplicate must be different references")
	}

	verdict := storage.VerdictDuplicate
	if resolveDistinct {
		verdict = storage.VerdictDistinct
	}

	decision := storage.Decision{
		PrimaryID:   args[0],
		DuplicateID: args[1],
		Verdict:     verdict,
		Note:        resolveNote,
		DecidedAt:   time.Now().UTC(),
	}

	if err := storage.AppendDecision(config.DecisionsPath(repoRoot), decision); err != nil {
		exitWithError(ExitDataError, "recording decision: %v", err)
	}

	if humanOutput {
		fmt.Printf("Recorded %s verdict for %s / %s\n", verdict, args[0], args[1])
	} else {
		outputJSON(StatusResponse{Status: "resolved"})
	}
	return nil
}
