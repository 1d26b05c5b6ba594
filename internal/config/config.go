// Package config holds the tunable settings read from an optional TOML
// file, overlaid on top of built-in defaults: search parameters, hash
// size, and training driver settings.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chessbot/revolver/internal/search"
)

// SearchConfig mirrors search.Params plus the one knob that lives outside
// it (hash size).
type SearchConfig struct {
	HashSizeMB           int
	AspirationWindow     int
	NullMoveMinDepth     int
	NullMoveReduction    int
	FutilityMaxDepth     int
	FutilityMarginPerPly int
	LateMoveReduction    int
}

// TrainingConfig controls the self-play driver.
type TrainingConfig struct {
	Workers     int
	MoveTimeMs  int
	DataDir     string
	RunStatsDB  string
	OpeningBook string // path to a Polyglot .bin file; empty disables it
}

// Config is the top-level settings document, decoded directly from TOML.
type Config struct {
	Search   SearchConfig
	Training TrainingConfig
}

// Default returns the built-in configuration, matching search.DefaultParams
// and a single-worker training run writing into the current directory.
func Default() Config {
	p := search.DefaultParams()
	return Config{
		Search: SearchConfig{
			HashSizeMB:           16,
			AspirationWindow:     int(p.AspirationWindow),
			NullMoveMinDepth:     p.NullMoveMinDepth,
			NullMoveReduction:    p.NullMoveReduction,
			FutilityMaxDepth:     p.FutilityMaxDepth,
			FutilityMarginPerPly: int(p.FutilityMarginPerPly),
			LateMoveReduction:    p.LateMoveReduction,
		},
		Training: TrainingConfig{
			Workers:    1,
			MoveTimeMs: 125,
			DataDir:    ".",
		},
	}
}

// Load reads path as a TOML document and overlays it onto Default(). A
// missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// SearchParams builds a search.Params from the configured values.
func (c Config) SearchParams() search.Params {
	return search.Params{
		AspirationWindow:     search.Score(c.Search.AspirationWindow),
		NullMoveMinDepth:     c.Search.NullMoveMinDepth,
		NullMoveReduction:    c.Search.NullMoveReduction,
		FutilityMaxDepth:     c.Search.FutilityMaxDepth,
		FutilityMarginPerPly: search.Score(c.Search.FutilityMarginPerPly),
		LateMoveReduction:    c.Search.LateMoveReduction,
	}
}
