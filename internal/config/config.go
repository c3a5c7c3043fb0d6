// Package config provides configuration file support for convsuppress.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spechtlabs/convsuppress/suppress"
)

// ConfigFileName is the default configuration file name.
const ConfigFileName = ".convsuppress.yaml"

// Config represents the convsuppress configuration.
type Config struct {
	// Issues configures which issues may be suppressed.
	// Use "default: false" to drop every rule, then enable specific issues.
	// Use "default: true" (or omit) to keep every rule, then disable specific ones.
	Issues map[string]bool `yaml:"issues"`

	// RulesFile is a YAML rule file merged over the built-in rules.
	// Relative paths are resolved against the directory of the config file.
	RulesFile string `yaml:"rules-file"`

	// RootNamespace replaces the App namespace in the built-in rules.
	RootNamespace string `yaml:"root-namespace"`

	// ReplaceDefaults drops the built-in rules so only RulesFile applies.
	ReplaceDefaults bool `yaml:"replace-defaults"`
}

// Load attempts to load configuration from .convsuppress.yaml in the current
// directory or any parent directory up to the filesystem root.
func Load() (*Config, error) {
	path, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	if path == "" {
		// No config file found, return default config
		return &Config{
			Issues: map[string]bool{"default": true},
		}, nil
	}

	return LoadFrom(path)
}

// LoadFrom loads configuration from the specified path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// Ensure Issues map exists
	if cfg.Issues == nil {
		cfg.Issues = map[string]bool{"default": true}
	}

	if cfg.RulesFile != "" && !filepath.IsAbs(cfg.RulesFile) {
		cfg.RulesFile = filepath.Join(filepath.Dir(path), cfg.RulesFile)
	}

	return &cfg, nil
}

// findConfigFile searches for .convsuppress.yaml starting from the current
// directory and walking up to parent directories.
func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// RuleSet builds the effective rules on top of base: base is moved to the
// configured root namespace (or dropped when ReplaceDefaults is set), the
// rules file is merged in, and disabled issues are filtered out.
func (c *Config) RuleSet(base suppress.RuleSet) (suppress.RuleSet, error) {
	if c == nil {
		return base.Clone(), nil
	}

	rules := base.WithRootNamespace(c.RootNamespace)
	if c.ReplaceDefaults {
		rules = suppress.RuleSet{Separator: base.Separator}
	}

	if c.RulesFile != "" {
		extra, err := suppress.LoadRules(c.RulesFile)
		if err != nil {
			return suppress.RuleSet{}, err
		}
		rules = rules.Merge(extra)
	}

	return c.FilterIssues(rules), nil
}

// FilterIssues returns rules without the issues disabled by the config.
func (c *Config) FilterIssues(rules suppress.RuleSet) suppress.RuleSet {
	var disabled []string
	for _, issue := range rules.Issues() {
		if !c.IsEnabled(issue) {
			disabled = append(disabled, issue)
		}
	}
	return rules.WithoutIssues(disabled...)
}

// IsEnabled checks if a specific issue may be suppressed.
func (c *Config) IsEnabled(issue string) bool {
	if c == nil || c.Issues == nil {
		return true
	}

	// Check specific setting
	if val, ok := c.Issues[issue]; ok {
		return val
	}

	// Check default
	if val, ok := c.Issues["default"]; ok {
		return val
	}

	return true
}
