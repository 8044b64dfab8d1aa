// Package config handles repository and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
)

// DedupDefaults holds the default deduplication options stored in repository
// config. The CLI reads these, applies flag overrides, and validates ranges
// before the engine runs.
type DedupDefaults struct {
	TitleSimilarityThreshold float64 `json:"title_similarity_threshold"`
	RequireYearMatch         bool    `json:"require_year_match"`
	YearTolerance            int     `json:"year_tolerance"`
	NormalizeSpelling        bool    `json:"normalize_spelling"`
}

// Config represents repository configuration stored in .refdup/config.json.
type Config struct {
	Dedup DedupDefaults `json:"dedup"`
}

// Repository layout under the .refdup directory.
const (
	RefdupDir     = ".refdup"
	ConfigFile    = "config.json"
	RefsFile      = "refs.jsonl"
	DecisionsFile = "decisions.jsonl"
	CacheDir      = "cache"
	DBFile        = "refs.db"
)

// Default returns the standard repository configuration.
func Default() *Config {
	return &Config{
		Dedup: DedupDefaults{
			TitleSimilarityThreshold: 0.86,
			RequireYearMatch:         true,
			YearTolerance:            0,
			NormalizeSpelling:        true,
		},
	}
}

// RefdupPath returns the path to the .refdup directory from a root path.
func RefdupPath(root string) string {
	return filepath.Join(root, RefdupDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RefdupDir, ConfigFile)
}

// RefsPath returns the path to refs.jsonl from a root path.
func RefsPath(root string) string {
	return filepath.Join(root, RefdupDir, RefsFile)
}

// DecisionsPath returns the path to decisions.jsonl from a root path.
func DecisionsPath(root string) string {
	return filepath.Join(root, RefdupDir, DecisionsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RefdupDir, CacheDir)
}

// DBPath returns the path to refs.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RefdupDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a refdup repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RefdupPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a refdup repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a refdup repository (no .refdup directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks option ranges. The configuration boundary rejects invalid
// values so the engine never sees them.
func (d DedupDefaults) Validate() error {
	if d.TitleSimilarityThreshold < 0 || d.TitleSimilarityThreshold > 1 {
		return fmt.Errorf("title_similarity_threshold %v outside [0,1]", d.TitleSimilarityThreshold)
	}
	if d.YearTolerance < 0 {
		return fmt.Errorf("year_tolerance %d is negative", d.YearTolerance)
	}
	return nil
}
