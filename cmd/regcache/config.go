package main

import (
	"fmt"
	"os"
	"time"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file layout.
//
//	syntax: ecmascript
//	match_timeout: 2s
//	journal: handles.db
//	patterns: [./patterns]
//	builtin_patterns: true
//	color: auto
type fileConfig struct {
	Syntax          string   `yaml:"syntax"`
	MatchTimeout    string   `yaml:"match_timeout"`
	Journal         string   `yaml:"journal"`
	Patterns        []string `yaml:"patterns"`
	BuiltinPatterns bool     `yaml:"builtin_patterns"`
	Color           string   `yaml:"color"`
}

// settings is the resolved configuration: defaults, then the config file,
// then command-line flags.
type settings struct {
	engine   engine.Options
	journal  string
	patterns []string
	builtin  bool
	color    string
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// loadSettings resolves settings from the config file and the global flags.
func loadSettings() (*settings, error) {
	s := &settings{
		engine: engine.DefaultOptions(),
		color:  "auto",
	}

	syntax, timeout, color := "", "", ""
	if configPath != "" {
		cfg, err := loadFileConfig(configPath)
		if err != nil {
			return nil, err
		}
		syntax, timeout, color = cfg.Syntax, cfg.MatchTimeout, cfg.Color
		s.journal = cfg.Journal
		s.patterns = cfg.Patterns
		s.builtin = cfg.BuiltinPatterns
	}

	// Flags override the file
	if flagSyntax != "" {
		syntax = flagSyntax
	}
	if flagTimeout != "" {
		timeout = flagTimeout
	}
	if flagColor != "" {
		color = flagColor
	}

	parsed, err := engine.ParseSyntax(syntax)
	if err != nil {
		return nil, err
	}
	s.engine.Syntax = parsed

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid match timeout %q: %w", timeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid match timeout %q: must not be negative", timeout)
		}
		s.engine.MatchTimeout = d
	}

	if color != "" {
		switch color {
		case "auto", "always", "never":
			s.color = color
		default:
			return nil, fmt.Errorf("invalid color mode %q (want auto, always or never)", color)
		}
	}

	return s, nil
}
