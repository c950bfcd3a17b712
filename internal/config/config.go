package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tool-wide settings. Every field has a default so the CLI
// works with no config file at all.
type Config struct {
	Project struct {
		Root     string   `yaml:"root"`
		Excludes []string `yaml:"excludes"`
	} `yaml:"project"`
	Knowledge struct {
		DictionaryPath string `yaml:"dictionary_path"`
		PatternsPath   string `yaml:"patterns_path"`
	} `yaml:"knowledge"`
	Output struct {
		ReportPath   string `yaml:"report_path"`
		DatabasePath string `yaml:"database_path"`
	} `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Project.Excludes = []string{"third-party", "vendor", "build", "scripts"}
	cfg.Knowledge.DictionaryPath = "domain.json"
	cfg.Knowledge.PatternsPath = "comment_patterns.json"
	cfg.Output.ReportPath = "comment_suggestions_report.md"
	cfg.Output.DatabasePath = "cdoc.db"
	return &cfg
}

// Load reads a YAML config file, layered over defaults and under environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	// 1. Load .env if present
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// 3. Override with environment variables if present
	if root := os.Getenv("CDOC_PROJECT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if excludes := os.Getenv("CDOC_EXCLUDES"); excludes != "" {
		cfg.Project.Excludes = splitList(excludes)
	}
	if dict := os.Getenv("CDOC_DICTIONARY"); dict != "" {
		cfg.Knowledge.DictionaryPath = dict
	}
	if patterns := os.Getenv("CDOC_PATTERNS"); patterns != "" {
		cfg.Knowledge.PatternsPath = patterns
	}
	if db := os.Getenv("CDOC_DB"); db != "" {
		cfg.Output.DatabasePath = db
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
