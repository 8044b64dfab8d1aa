package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dedup.TitleSimilarityThreshold != 0.86 {
		t.Errorf("threshold = %v, want 0.86", cfg.Dedup.TitleSimilarityThreshold)
	}
	if !cfg.Dedup.RequireYearMatch {
		t.Error("RequireYearMatch = false, want true")
	}
	if cfg.Dedup.YearTolerance != 0 {
		t.Errorf("YearTolerance = %d, want 0", cfg.Dedup.YearTolerance)
	}
	if !cfg.Dedup.NormalizeSpelling {
		t.Error("NormalizeSpelling = false, want true")
	}
	if err := cfg.Dedup.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(RefdupPath(root), 0755); err != nil {
		t.Fatalf("creating repo dir: %v", err)
	}

	cfg := Default()
	cfg.Dedup.TitleSimilarityThreshold = 0.9
	cfg.Dedup.YearTolerance = 1
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Dedup.TitleSimilarityThreshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9", got.Dedup.TitleSimilarityThreshold)
	}
	if got.Dedup.YearTolerance != 1 {
		t.Errorf("YearTolerance = %d, want 1", got.Dedup.YearTolerance)
	}
}

func TestFindRepository(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(RefdupPath(root), 0755); err != nil {
		t.Fatalf("creating repo dir: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}

	found, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	// Resolve symlinks for comparison (macOS tmpdir is symlinked).
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(found)
	if gotRoot != wantRoot {
		t.Errorf("FindRepository() = %s, want %s", gotRoot, wantRoot)
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("FindRepository() error = nil, want error outside a repository")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       DedupDefaults
		wantErr bool
	}{
		{name: "valid", d: DedupDefaults{TitleSimilarityThreshold: 0.86}, wantErr: false},
		{name: "threshold zero", d: DedupDefaults{TitleSimilarityThreshold: 0}, wantErr: false},
		{name: "threshold one", d: DedupDefaults{TitleSimilarityThreshold: 1}, wantErr: false},
		{name: "threshold negative", d: DedupDefaults{TitleSimilarityThreshold: -0.1}, wantErr: true},
		{name: "threshold above one", d: DedupDefaults{TitleSimilarityThreshold: 1.1}, wantErr: true},
		{name: "negative tolerance", d: DedupDefaults{TitleSimilarityThreshold: 0.5, YearTolerance: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
