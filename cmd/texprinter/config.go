package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// configFile is looked up in the XDG config directories.
const configFile = "texprinter/config.yaml"

// config holds the settings that may come from the config file. Flags given
// on the command line override them.
type config struct {
	BaseURL      string        `yaml:"base_url"`
	Format       string        `yaml:"format"`
	ImageDir     string        `yaml:"image_dir"`
	SyntaxFiles  string        `yaml:"syntax_files"`
	ImageRewrite string        `yaml:"image_rewrite"`
	Concurrency  int           `yaml:"concurrency"`
	Timeout      time.Duration `yaml:"timeout"`
	NoCaptions   bool          `yaml:"no_captions"`
	TextIcons    bool          `yaml:"text_icons"`
}

func defaultConfig() config {
	return config{
		Format:       "pdf",
		ImageDir:     ".",
		ImageRewrite: "structural",
		Concurrency:  4,
		Timeout:      30 * time.Second,
	}
}

// findConfigFile returns explicit when set, otherwise the first
// texprinter/config.yaml in the XDG config directories, or "".
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return ""
	}
	return path
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
