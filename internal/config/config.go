// Package config loads the optional host/CLI configuration file. Nothing
// here carries language semantics — it only controls ambient concerns like
// color output, a runaway-loop guard, and state persistence between CLI
// runs.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Output controls CLI presentation.
type Output struct {
	Color bool `toml:"color"`
}

// Limits bounds interpreter execution for interactive/CLI use.
type Limits struct {
	// MaxSteps caps the number of statements a single Execute call may run.
	// 0 means unbounded.
	MaxSteps int `toml:"max_steps"`
}

// State controls the CLI's between-run state persistence convenience.
// This never touches internal/interp's state-store contract directly; the
// CLI loads/saves it through the public GetAllState/setState API.
type State struct {
	PersistPath string `toml:"persist_path"`
}

// Config is the root of the TOML document.
type Config struct {
	Output Output `toml:"output"`
	Limits Limits `toml:"limits"`
	State  State  `toml:"state"`
}

// Default returns the configuration used when no file is supplied:
// colorized output, no step limit, no persistence.
func Default() Config {
	return Config{Output: Output{Color: true}}
}

// Load reads and parses a TOML file at path, starting from Default() so
// unset sections keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
