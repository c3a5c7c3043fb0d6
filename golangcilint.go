// Package convsuppress provides golangci-lint v2 module plugin integration.
//
// This file registers the conventions analyzer as a module plugin for
// golangci-lint v2, so that custom analyzers built into the same binary can
// Require it and report through conventions.Reporter:
//
//  1. Create a .custom-gcl.yml file referencing this module
//  2. Run: golangci-lint custom
//  3. Use the generated ./custom-gcl binary
//
// Settings:
//
//	linters:
//	  settings:
//	    custom:
//	      convsuppress:
//	        type: module
//	        settings:
//	          rules-file: .convsuppress-rules.yaml
//	          disabled-issues: [UnusedClass]
//
// See https://golangci-lint.run/plugins/module-plugins/ for more details.
package convsuppress

import (
	"fmt"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/spechtlabs/convsuppress/conventions"
	"github.com/spechtlabs/convsuppress/suppress"
)

//nolint:gochecknoinits // Required for golangci-lint module plugin registration
func init() {
	register.Plugin("convsuppress", New)
}

// Settings configures the rules the plugin evaluates.
type Settings struct {
	// RulesFile is a YAML rule file.
	RulesFile string `json:"rules-file"`

	// DisabledIssues lists issues whose rules are dropped.
	DisabledIssues []string `json:"disabled-issues"`
}

type convsuppressPlugin struct {
	settings Settings
}

// New creates a new convsuppress plugin instance.
func New(conf any) (register.LinterPlugin, error) {
	s, err := register.DecodeSettings[Settings](conf)
	if err != nil {
		return nil, fmt.Errorf("convsuppress: decode settings: %w", err)
	}
	return &convsuppressPlugin{settings: s}, nil
}

// BuildAnalyzers configures the shared conventions analyzer with the settings
// and returns it, so analyzers requiring conventions.Analyzer see these rules.
func (p *convsuppressPlugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	rules := suppress.RuleSet{Separator: conventions.Separator}
	if p.settings.RulesFile != "" {
		extra, err := suppress.LoadRules(p.settings.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("convsuppress: %w", err)
		}
		rules = rules.Merge(extra)
	}
	rules = rules.WithoutIssues(p.settings.DisabledIssues...)

	conventions.Configure(&rules)
	return []*analysis.Analyzer{conventions.Analyzer}, nil
}

// GetLoadMode returns the load mode required by the analyzer.
// Embedded types and method sets come from pass.TypesInfo.
func (p *convsuppressPlugin) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
