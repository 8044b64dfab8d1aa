package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
	"github.com/refkit/refdup/internal/dedup"
	"github.com/refkit/refdup/internal/storage"
)

var (
	dedupeThreshold     float64
	dedupeYearTolerance int
	dedupeIgnoreYear    bool
	dedupeNoSpelling    bool
	dedupeAll           bool
)

func init() {
	rootCmd.AddCommand(dedupeCmd)
	dedupeCmd.Flags().Float64Var(&dedupeThreshold, "threshold", 0, "Title similarity threshold in [0,1] (overrides config)")
	dedupeCmd.Flags().IntVar(&dedupeYearTolerance, "year-tolerance", 0, "Maximum year difference for title matching (overrides config)")
	dedupeCmd.Flags().BoolVar(&dedupeIgnoreYear, "ignore-year", false, "Include references without a year in title matching")
	dedupeCmd.Flags().BoolVar(&dedupeNoSpelling, "no-normalize-spelling", false, "Disable British/American spelling normalization")
	dedupeCmd.Flags().BoolVar(&dedupeAll, "all", false, "Include pairs already resolved in the decisions log")
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Scan the library for likely duplicate references",
	Long: `Scan the library for likely duplicate references.

Pairs are flagged by shared DOI, shared PMID, or title similarity within a
year window. Pairs already resolved with 'refdup resolve' are hidden unless
--all is given.`,
	RunE: runDedupe,
}

// DedupeResult is the response for the dedupe command.
type DedupeResult struct {
	Matches  []dedup.Match `json:"matches"`
	Count    int           `json:"count"`
	Scanned  int           `json:"scanned"`
	Resolved int           `json:"resolved"` // matches hidden by prior decisions
}

func runDedupe(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	defaults := applyDedupeFlags(cfg.Dedup, cmd)
	if err := defaults.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid options: %v", err)
	}
	opts := dedupOptions(defaults)

	refs, err := storage.ReadAll(config.RefsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading refs: %v", err)
	}

	start := time.Now()
	matches := dedup.Run(refs, opts)
	log.WithFields(log.Fields{"refs": len(refs), "matches": len(matches), "elapsed": time.Since(start)}).
		Debug("deduplication scan complete")

	hidden := 0
	if !dedupeAll {
		resolved, err := resolvedPairs(config.DecisionsPath(repoRoot))
		if err != nil {
			exitWithError(ExitDataError, "reading decisions: %v", err)
		}
		matches, hidden = filterResolved(matches, resolved)
	}

	if humanOutput {
		printMatchesTable(matches)
		fmt.Printf("\n%d candidate pairs (%d references scanned", len(matches), len(refs))
		if hidden > 0 {
			fmt.Printf(", %d already resolved", hidden)
		}
		fmt.Println(")")
	} else {
		outputJSON(DedupeResult{
			Matches:  matches,
			Count:    len(matches),
			Scanned:  len(refs),
			Resolved: hidden,
		})
	}
	return nil
}

// applyDedupeFlags overlays explicitly-set command flags on config defaults.
func applyDedupeFlags(d config.DedupDefaults, cmd *cobra.Command) config.DedupDefaults {
	if cmd.Flags().Changed("threshold") {
		d.TitleSimilarityThreshold = dedupeThreshold
	}
	if cmd.Flags().Changed("year-tolerance") {
		d.YearTolerance = dedupeYearTolerance
	}
	if dedupeIgnoreYear {
		d.RequireYearMatch = false
	}
	if dedupeNoSpelling {
		d.NormalizeSpelling = false
	}
	return d
}

// dedupOptions converts validated config defaults to engine options.
func dedupOptions(d config.DedupDefaults) dedup.Options {
	opts := dedup.DefaultOptions()
	opts.TitleSimilarityThreshold = d.TitleSimilarityThreshold
	opts.RequireYearMatch = d.RequireYearMatch
	opts.YearTolerance = d.YearTolerance
	opts.NormalizeSpelling = d.NormalizeSpelling
	return opts
}

// resolvedPairs returns the set of canonical pairs present in the decisions log.
func resolvedPairs(decisionsPath string) (map[[2]string]bool, error) {
	decisions, err := storage.ReadAllDecisions(decisionsPath)
	if err != nil {
		return nil, err
	}

	pairs := make(map[[2]string]bool, len(decisions))
	for _, d := range decisions {
		a, b := d.PrimaryID, d.DuplicateID
		if b < a {
			a, b = b, a
		}
		pairs[[2]string{a, b}] = true
	}
	return pairs, nil
}

// filterResolved drops matches whose pair appears in the resolved set.
func filterResolved(matches []dedup.Match, resolved map[[2]string]bool) (kept []dedup.Match, hidden int) {
	for _, m := range matches {
		if resolved[[2]string{m.PrimaryID, m.DuplicateID}] {
			hidden++
			continue
		}
		kept = append(kept, m)
	}
	return kept, hidden
}

// printMatchesTable renders candidate pairs as a table on stdout.
func printMatchesTable(matches []dedup.Match) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Primary", "Duplicate", "Reasons", "Similarity"})
	for _, m := range matches {
		t.AppendRow(table.Row{
			m.PrimaryID,
			m.DuplicateID,
			formatReasons(m.Reasons),
			formatSimilarity(m.TitleSimilarity),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func formatReasons(reasons []dedup.Reason) string {
	s := ""
	for i, r := range reasons {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

func formatSimilarity(sim *float64) string {
	if sim == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *sim)
}
