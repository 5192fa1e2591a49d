package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the annotator
type Config struct {
	Annotations string `koanf:"annotations"` // directory of per-diagram annotation JSON files
	Output      string `koanf:"output"`      // collection file to create or resume
	ExportDir   string `koanf:"exportdir"`   // destination for DOT exports
	Review      bool   `koanf:"review"`      // reopen complete diagrams for revision
	DisableRST  bool   `koanf:"norst"`       // skip the rhetorical-structure layer
	Watch       bool   `koanf:"watch"`       // pick up annotation files added mid-session
	WebMode     bool   `koanf:"web"`         // serve the progress surface
	Port        int    `koanf:"port"`
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"annotations": ".",
		"output":      "collection.json",
		"exportdir":   ".",
		"review":      false,
		"norst":       false,
		"watch":       false,
		"web":         false,
		"port":        8080,
		"verbosity":   "",
		"verbose":     0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - annotator.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("annotator.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: ANNOTATOR_ (e.g., ANNOTATOR_PORT=9090)
	if err := k.Load(env.Provider("ANNOTATOR_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "ANNOTATOR_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
