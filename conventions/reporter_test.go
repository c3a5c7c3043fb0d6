package conventions

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
)

// newUnusedAnalyzer reports every type, method and field through a
// Reporter, leaving only what the conventions do not suppress.
func newUnusedAnalyzer(conv *analysis.Analyzer) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     "unused",
		Doc:      "report every type, method and field as unused",
		Requires: []*analysis.Analyzer{conv},
		Run: func(pass *analysis.Pass) (interface{}, error) {
			r := NewReporter(pass)
			for _, file := range pass.Files {
				for _, decl := range file.Decls {
					switch d := decl.(type) {
					case *ast.GenDecl:
						if d.Tok != token.TYPE {
							continue
						}
						for _, spec := range d.Specs {
							ts := spec.(*ast.TypeSpec)
							r.Reportf(ts.Name.Pos(), "UnusedClass", "type %s is unused", ts.Name.Name)

							st, ok := ts.Type.(*ast.StructType)
							if !ok {
								continue
							}
							for _, field := range st.Fields.List {
								for _, name := range field.Names {
									r.Reportf(name.Pos(), "PropertyNotSetInConstructor", "field %s is not set in constructor", name.Name)
								}
							}
						}
					case *ast.FuncDecl:
						if d.Recv != nil {
							r.Reportf(d.Name.Pos(), "PossiblyUnusedMethod", "method %s is possibly unused", d.Name.Name)
						}
					}
				}
			}
			return nil, nil
		},
	}
}

func TestReporter(t *testing.T) {
	testdata := analysistest.TestData()
	if err := Analyzer.Flags.Set("rules", filepath.Join(testdata, "rules.yaml")); err != nil {
		t.Fatalf("failed to set -rules: %v", err)
	}
	t.Cleanup(func() { _ = Analyzer.Flags.Set("rules", "") })

	analysistest.Run(t, testdata, newUnusedAnalyzer(Analyzer), "app", "app/jobs", "app/jobsrunner")
}

func TestReporterWithoutConventions(t *testing.T) {
	a := &analysis.Analyzer{
		Name: "directives",
		Doc:  "report every method, honoring only nolint directives",
		Run: func(pass *analysis.Pass) (interface{}, error) {
			r := NewReporter(pass)
			if r.Result != nil {
				t.Error("Reporter found a conventions result without requiring the analyzer")
			}
			for _, file := range pass.Files {
				for _, decl := range file.Decls {
					if d, ok := decl.(*ast.FuncDecl); ok && d.Recv != nil {
						r.Reportf(d.Name.Pos(), "PossiblyUnusedMethod", "method %s is possibly unused", d.Name.Name)
					}
				}
			}
			return nil, nil
		},
	}

	analysistest.Run(t, analysistest.TestData(), a, "directives")
}
