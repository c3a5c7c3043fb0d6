//go:build ignore
// +build ignore

// Package main provides a golangci-lint plugin exporting the conventions analyzer.
//
// Build as a plugin:
//
//	go build -buildmode=plugin -o convsuppress.so ./plugin
//
// Then configure golangci-lint:
//
//	linters-settings:
//	  custom:
//	    convsuppress:
//	      path: ./convsuppress.so
//	      description: Convention-based issue suppression
//	      original-url: github.com/spechtlabs/convsuppress
//
// The analyzer reads its rules from the nearest .convsuppress.yaml.
//
// NOTE: This file is excluded from normal builds. Use -buildmode=plugin explicitly.
package main

import (
	"golang.org/x/tools/go/analysis"

	"github.com/spechtlabs/convsuppress/conventions"
)

// AnalyzerPlugin exports the analyzers for golangci-lint plugin system.
var AnalyzerPlugin analyzerPlugin

type analyzerPlugin struct{}

// GetAnalyzers returns the conventions analyzer for the plugin system.
func (analyzerPlugin) GetAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{conventions.Analyzer}
}

// main is a no-op; this package is meant to be built with -buildmode=plugin.
func main() {}
