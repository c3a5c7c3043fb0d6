// Package conventions runs the suppression engine over Go code.
//
// The analyzer plays the host role: every named type declared in a package
// is described as a class-like entity and handed to the engine. Its result
// records which issues are suppressed on each type, method and field, and
// Reporter lets dependent analyzers drop diagnostics accordingly.
//
// Go types map onto class descriptions as follows:
//
//	name        import/path.TypeName (namespace separator ".")
//	parents     embedded struct types, transitively
//	traits      embedded interface types, transitively
//	methods     methods declared on the type, looked up ignoring case
//	properties  named struct fields
package conventions

import (
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"slices"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/spechtlabs/convsuppress/internal/config"
	"github.com/spechtlabs/convsuppress/suppress"
)

// Separator joins a package path and a type name.
const Separator = "."

const Doc = `compute convention-based issue suppressions for named types

Each named type is matched against the suppression rule tables: by type
name, by package path, by embedded struct ("parent class") and by embedded
interface ("trait"). Matching rules suppress issues on the type, on its
methods or on its fields.

Rules set with conventions.Configure take precedence. Otherwise they come
from the file given by -rules, or else from the rules-file of the nearest
.convsuppress.yaml. Analyzers that Require this one report
through conventions.Reporter to honor the suppressions.`

var defaultRunner = &runner{}

// Analyzer reads its rules from Configure, the -rules flag or the config
// file, in that order. Analyzers reporting through Reporter require it.
var Analyzer = newAnalyzer(defaultRunner, true)

// Configure fixes the rules evaluated by Analyzer, overriding the -rules
// flag and the config file. A nil rules restores that lookup.
func Configure(rules *suppress.RuleSet) {
	defaultRunner.setFixed(rules)
}

// New returns a standalone analyzer evaluating rules. A nil rules falls back
// to the -rules flag and the config file.
func New(rules *suppress.RuleSet) *analysis.Analyzer {
	r := &runner{}
	r.setFixed(rules)
	return newAnalyzer(r, rules == nil)
}

func newAnalyzer(r *runner, withFlags bool) *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name:       "conventions",
		Doc:        Doc,
		Requires:   []*analysis.Analyzer{inspect.Analyzer},
		Run:        r.run,
		ResultType: reflect.TypeOf((*Result)(nil)),
	}
	if withFlags {
		a.Flags.StringVar(&r.rulesFile, "rules", "", "YAML file with suppression rules")
	}
	return a
}

func base() suppress.RuleSet {
	return suppress.RuleSet{Separator: Separator}
}

type runner struct {
	rulesFile string

	mu     sync.Mutex
	fixed  *suppress.Engine
	engine *suppress.Engine
	loaded string
}

func (r *runner) setFixed(rules *suppress.RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixed = nil
	if rules != nil {
		r.fixed = suppress.New(base().Merge(*rules))
	}
}

// load returns the fixed engine, or the engine for the current flag value,
// reading rules once.
func (r *runner) load() (*suppress.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fixed != nil {
		return r.fixed, nil
	}
	if r.engine != nil && r.loaded == r.rulesFile {
		return r.engine, nil
	}

	var rules suppress.RuleSet
	if r.rulesFile != "" {
		extra, err := suppress.LoadRules(r.rulesFile)
		if err != nil {
			return nil, err
		}
		rules = base().Merge(extra)
	} else {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if rules, err = cfg.RuleSet(base()); err != nil {
			return nil, err
		}
	}

	r.engine = suppress.New(rules)
	r.loaded = r.rulesFile
	return r.engine, nil
}

func (r *runner) run(pass *analysis.Pass) (interface{}, error) {
	engine, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("conventions: %w", err)
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	res := &Result{Classes: make(map[*types.TypeName]*Class)}

	nodeFilter := []ast.Node{
		(*ast.TypeSpec)(nil),
	}

	var applyErr error
	inspect.Preorder(nodeFilter, func(n ast.Node) {
		ts := n.(*ast.TypeSpec)

		obj, ok := pass.TypesInfo.Defs[ts.Name].(*types.TypeName)
		if !ok || obj.IsAlias() || obj.Parent() != pass.Pkg.Scope() {
			return
		}

		class := newClass(obj)
		if err := engine.Apply(class); err != nil && applyErr == nil {
			applyErr = err
		}
		res.Classes[obj] = class
	})

	return res, applyErr
}

// Result holds the class description of every package-level named type.
type Result struct {
	Classes map[*types.TypeName]*Class
}

// IsSuppressed reports whether issue is suppressed on the type itself.
func (r *Result) IsSuppressed(obj *types.TypeName, issue string) bool {
	if r == nil {
		return false
	}
	c, ok := r.Classes[obj]
	return ok && slices.Contains(c.issues, issue)
}

// Class describes a named Go type to the suppression engine.
type Class struct {
	Object *types.TypeName

	name       string
	parents    []string
	traits     []string
	methods    map[string]*Member
	properties map[string]*Member
	issues     []string
}

var _ suppress.ClassLike = (*Class)(nil)

// Member is a method or field of a Class.
type Member struct {
	Name   string
	issues []string
}

func (m *Member) SuppressedIssues() []string { return m.issues }
func (m *Member) Suppress(issue string)      { m.issues = append(m.issues, issue) }

func (c *Class) Name() string               { return c.name }
func (c *Class) ParentClasses() []string    { return c.parents }
func (c *Class) UsedTraits() []string       { return c.traits }
func (c *Class) SuppressedIssues() []string { return c.issues }
func (c *Class) Suppress(issue string)      { c.issues = append(c.issues, issue) }

func (c *Class) Method(name string) (suppress.Suppressible, bool) {
	m, ok := c.methods[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return m, true
}

func (c *Class) Property(name string) (suppress.Suppressible, bool) {
	p, ok := c.properties[name]
	if !ok {
		return nil, false
	}
	return p, true
}

// methodSuppressed reports whether issue is suppressed on the named method.
func (c *Class) methodSuppressed(name, issue string) bool {
	m, ok := c.methods[strings.ToLower(name)]
	return ok && slices.Contains(m.issues, issue)
}

// propertySuppressed reports whether issue is suppressed on the named field.
func (c *Class) propertySuppressed(name, issue string) bool {
	p, ok := c.properties[name]
	return ok && slices.Contains(p.issues, issue)
}

func newClass(obj *types.TypeName) *Class {
	c := &Class{
		Object:     obj,
		name:       qualifiedName(obj),
		methods:    make(map[string]*Member),
		properties: make(map[string]*Member),
	}

	named, ok := obj.Type().(*types.Named)
	if !ok {
		return c
	}

	for i := 0; i < named.NumMethods(); i++ {
		c.addMethod(named.Method(i).Name())
	}

	seen := map[string]bool{c.name: true}
	switch u := named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if f.Embedded() {
				c.collectEmbedded(f.Type(), seen)
				continue
			}
			if f.Name() != "_" {
				c.properties[f.Name()] = &Member{Name: f.Name()}
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumExplicitMethods(); i++ {
			c.addMethod(u.ExplicitMethod(i).Name())
		}
		for i := 0; i < u.NumEmbeddeds(); i++ {
			c.collectEmbedded(u.EmbeddedType(i), seen)
		}
	}

	return c
}

func (c *Class) addMethod(name string) {
	c.methods[strings.ToLower(name)] = &Member{Name: name}
}

// collectEmbedded records t and everything it embeds as parents (structs)
// or traits (interfaces).
func (c *Class) collectEmbedded(t types.Type, seen map[string]bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok {
		return
	}
	named = named.Origin()

	name := qualifiedName(named.Obj())
	if seen[name] {
		return
	}
	seen[name] = true

	switch u := named.Underlying().(type) {
	case *types.Struct:
		c.parents = append(c.parents, name)
		for i := 0; i < u.NumFields(); i++ {
			if f := u.Field(i); f.Embedded() {
				c.collectEmbedded(f.Type(), seen)
			}
		}
	case *types.Interface:
		c.traits = append(c.traits, name)
		for i := 0; i < u.NumEmbeddeds(); i++ {
			c.collectEmbedded(u.EmbeddedType(i), seen)
		}
	}
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + Separator + obj.Name()
}
