package conventions

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"regexp"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// AllIssues in a nolint directive suppresses every issue.
const AllIssues = "convsuppress"

// nolintRegex matches nolint directives in comments.
// Matches: //nolint:Issue or // nolint:Issue or //nolint:Issue1,Issue2
var nolintRegex = regexp.MustCompile(`^//\s*nolint:([a-zA-Z0-9_,-]+)`)

// Reporter wraps analysis.Pass so that diagnostics for issues suppressed by
// convention rules or by //nolint directives are dropped.
//
// A diagnostic is dropped when its issue is suppressed on the type whose
// declaration encloses it, on the enclosing method or field of that type,
// or by a directive on the same or the preceding line.
type Reporter struct {
	Pass   *analysis.Pass
	Result *Result

	// directives maps filename -> line -> suppressed issues.
	directives map[string]map[int][]string
	spans      []span
}

// span is the source range of a type declaration, method or field.
type span struct {
	pos, end token.Pos
	class    *types.TypeName
	method   string
	property string
}

// NewReporter creates a reporter for pass. The pass's analyzer must Require
// a conventions analyzer; without one only nolint directives apply.
func NewReporter(pass *analysis.Pass) *Reporter {
	r := &Reporter{
		Pass:       pass,
		directives: make(map[string]map[int][]string),
	}

	for _, res := range pass.ResultOf {
		if cr, ok := res.(*Result); ok {
			r.Result = cr
			break
		}
	}

	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		r.directives[filename] = parseDirectives(file, pass.Fset)
		r.indexDecls(file)
	}

	return r
}

// parseDirectives extracts nolint directives from a file's comments.
func parseDirectives(file *ast.File, fset *token.FileSet) map[int][]string {
	byLine := make(map[int][]string)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			matches := nolintRegex.FindStringSubmatch(c.Text)
			if matches == nil {
				continue
			}
			line := fset.Position(c.Pos()).Line
			for _, name := range strings.Split(matches[1], ",") {
				if name = strings.TrimSpace(name); name != "" {
					byLine[line] = append(byLine[line], name)
				}
			}
		}
	}
	return byLine
}

func (r *Reporter) indexDecls(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				obj, ok := r.Pass.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				start := ts.Pos()
				if len(d.Specs) == 1 {
					start = d.Pos()
				}
				r.spans = append(r.spans, span{pos: start, end: ts.End(), class: obj})

				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				for _, field := range st.Fields.List {
					for _, name := range field.Names {
						r.spans = append(r.spans, span{pos: field.Pos(), end: field.End(), class: obj, property: name.Name})
					}
				}
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			if obj := receiverType(r.Pass.TypesInfo, d.Recv.List[0].Type); obj != nil {
				r.spans = append(r.spans, span{pos: d.Pos(), end: d.End(), class: obj, method: d.Name.Name})
			}
		}
	}
}

func receiverType(info *types.Info, expr ast.Expr) *types.TypeName {
	t := info.TypeOf(expr)
	if t == nil {
		return nil
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	return named.Origin().Obj()
}

// IsSuppressed reports whether issue is suppressed at pos.
func (r *Reporter) IsSuppressed(pos token.Pos, issue string) bool {
	position := r.Pass.Fset.Position(pos)
	if lines := r.directives[position.Filename]; lines != nil {
		for _, line := range []int{position.Line, position.Line - 1} {
			for _, name := range lines[line] {
				if name == AllIssues || name == issue {
					return true
				}
			}
		}
	}

	if r.Result == nil {
		return false
	}
	for _, s := range r.spans {
		if pos < s.pos || pos >= s.end {
			continue
		}
		c, ok := r.Result.Classes[s.class]
		if !ok {
			continue
		}
		switch {
		case s.method != "":
			if c.methodSuppressed(s.method, issue) {
				return true
			}
		case s.property != "":
			if c.propertySuppressed(s.property, issue) {
				return true
			}
		}
		if r.Result.IsSuppressed(s.class, issue) {
			return true
		}
	}
	return false
}

// Reportf reports a diagnostic for issue unless it is suppressed at pos.
func (r *Reporter) Reportf(pos token.Pos, issue, format string, args ...interface{}) {
	if r.IsSuppressed(pos, issue) {
		return
	}
	r.Pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: issue,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Report reports d for issue unless it is suppressed at d.Pos.
func (r *Reporter) Report(issue string, d analysis.Diagnostic) {
	if r.IsSuppressed(d.Pos, issue) {
		return
	}
	if d.Category == "" {
		d.Category = issue
	}
	r.Pass.Report(d)
}
