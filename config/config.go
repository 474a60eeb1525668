// Package config loads expresso's runtime configuration: an
// expresso.yaml document optionally overlaid with .env values, in the
// style snapsql uses for its own CLI configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is expresso's top-level configuration document.
type Config struct {
	// IncludeDirs lists EXPRESS include directories, read from YAML or
	// EXPRESSO_INCLUDE_DIRS. No command searches them: directory mode
	// walks only the path given on the command line.
	IncludeDirs []string `yaml:"include_dirs"`

	// SchemaExtensions lists the file extensions treated as EXPRESS
	// source when parse-express walks a directory. Defaults to
	// [".exp", ".express"].
	SchemaExtensions []string `yaml:"schema_extensions"`

	// Part21Extensions lists the file extensions treated as Part 21
	// exchange files. Defaults to [".stp", ".step", ".p21"].
	Part21Extensions []string `yaml:"part21_extensions"`

	// Color holds the colorization setting "auto" (default), "always",
	// or "never". Diagnostic rendering does not read it: diag.Render
	// colors output whenever stderr is a terminal.
	Color string `yaml:"color"`
}

// Default returns a Config populated with expresso's built-in defaults.
func Default() *Config {
	return &Config{
		SchemaExtensions: []string{".exp", ".express"},
		Part21Extensions: []string{".stp", ".step", ".p21"},
		Color:            "auto",
	}
}

// Load reads path as YAML into a Config seeded with Default, loads a
// sibling .env file into the process environment when one exists, and
// then applies EXPRESSO_INCLUDE_DIRS and EXPRESSO_COLOR from the
// environment. A missing path is not an error: Default is
// returned as-is so expresso runs with no configuration file present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			// no config file; defaults stand
		default:
			return nil, err
		}

		envPath := filepath.Join(filepath.Dir(path), ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EXPRESSO_INCLUDE_DIRS"); v != "" {
		cfg.IncludeDirs = strings.Split(v, string(os.PathListSeparator))
	}

	if v := os.Getenv("EXPRESSO_COLOR"); v != "" {
		cfg.Color = v
	}
}
