// Package config loads remedy.toml, the optional per-project configuration
// carrying the defaults a run starts from. Command-line flags override any
// value set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"remedy/internal/linefilter"
)

// ManifestName is the configuration file looked up in the target directory
// and its ancestors.
const ManifestName = "remedy.toml"

// Config is the decoded remedy.toml.
type Config struct {
	Run      RunConfig     `toml:"run"`
	Codemods CodemodConfig `toml:"codemods"`
	Reports  ReportConfig  `toml:"reports"`
}

// RunConfig carries the [run] section.
type RunConfig struct {
	// PathInclude and PathExclude are glob patterns, optionally
	// line-qualified ("src/app.py:3", "src/app.py:10-20").
	PathInclude []string `toml:"path-include"`
	PathExclude []string `toml:"path-exclude"`
	// MaxWorkers bounds the per-codemod file fan-out. 0 keeps the default.
	MaxWorkers int `toml:"max-workers"`
	// Output is the default report path.
	Output string `toml:"output"`
	DryRun bool   `toml:"dry-run"`
}

// CodemodConfig carries the [codemods] section.
type CodemodConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// ReportConfig carries the [reports] section: external scanner outputs fed
// to detector-gated codemods.
type ReportConfig struct {
	Sarif       []string `toml:"sarif"`
	SonarIssues []string `toml:"sonar-issues"`
}

// Load parses a remedy.toml and validates its glob patterns.
func Load(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Run.MaxWorkers < 0 {
		return Config{}, fmt.Errorf("%s: [run].max-workers must not be negative", path)
	}
	for _, patterns := range [][]string{cfg.Run.PathInclude, cfg.Run.PathExclude} {
		if err := linefilter.ValidatePatterns(patterns); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// Find walks up from startDir to locate remedy.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest remedy.toml at or above startDir, returning a
// zero Config when none exists.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Config{}, err
	}
	return Load(path)
}
