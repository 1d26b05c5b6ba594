package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error, got %v", err)
	}
	if cfg != Default() {
		t.Fatal("Load on a missing file should return the built-in defaults")
	}
}

func TestLoadOverlaysFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "revolver.toml")

	doc := `
[Search]
HashSizeMB = 256
NullMoveReduction = 3

[Training]
Workers = 8
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Search.HashSizeMB != 256 {
		t.Errorf("HashSizeMB = %d, want 256", cfg.Search.HashSizeMB)
	}
	if cfg.Search.NullMoveReduction != 3 {
		t.Errorf("NullMoveReduction = %d, want 3", cfg.Search.NullMoveReduction)
	}
	if cfg.Training.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Training.Workers)
	}

	// Fields untouched by the file keep their built-in defaults.
	defaults := Default()
	if cfg.Search.AspirationWindow != defaults.Search.AspirationWindow {
		t.Errorf("AspirationWindow = %d, want untouched default %d", cfg.Search.AspirationWindow, defaults.Search.AspirationWindow)
	}
}

func TestSearchParamsRoundTrip(t *testing.T) {
	cfg := Default()
	params := cfg.SearchParams()

	if int(params.AspirationWindow) != cfg.Search.AspirationWindow {
		t.Errorf("AspirationWindow mismatch: %d vs %d", params.AspirationWindow, cfg.Search.AspirationWindow)
	}
	if params.NullMoveMinDepth != cfg.Search.NullMoveMinDepth {
		t.Errorf("NullMoveMinDepth mismatch: %d vs %d", params.NullMoveMinDepth, cfg.Search.NullMoveMinDepth)
	}
	if int(params.FutilityMarginPerPly) != cfg.Search.FutilityMarginPerPly {
		t.Errorf("FutilityMarginPerPly mismatch: %d vs %d", params.FutilityMarginPerPly, cfg.Search.FutilityMarginPerPly)
	}
}
