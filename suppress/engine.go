// Package suppress decides which diagnostic issues a host analyzer should
// stop reporting for framework-conventional classes.
//
// The host visits one class-like entity at a time and hands it to
// [Engine.Apply], which evaluates seven declarative rule tables against it
// and appends issue identifiers to the suppression lists of the class and
// of selected methods and properties:
//
//  1. by exact class name
//  2. by exact class name and method name
//  3. by namespace prefix (first matching prefix per issue wins)
//  4. by namespace prefix and method name (every matching prefix applies)
//  5. by parent class
//  6. by parent class and property name
//  7. by used trait
//
// Records are owned by the host. The engine only reads them and appends to
// their suppression lists, never adding an issue twice.
package suppress

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ErrNilClass is returned by Apply when the host passes no record, including
// a nil pointer of a record type.
var ErrNilClass = errors.New("suppress: nil class-like record")

// Suppressible is anything carrying a list of suppressed issues.
type Suppressible interface {
	// SuppressedIssues returns the issues currently suppressed.
	SuppressedIssues() []string
	// Suppress appends issue to the list. The engine never calls it with an
	// issue that is already present.
	Suppress(issue string)
}

// ClassLike is the narrow view of a host class record the engine works on.
type ClassLike interface {
	Suppressible

	// Name returns the fully-qualified name of the entity.
	Name() string
	// ParentClasses returns every ancestor class of the entity.
	ParentClasses() []string
	// UsedTraits returns the traits used by the entity.
	UsedTraits() []string
	// Method looks up a method declared on the entity, ignoring case.
	Method(name string) (Suppressible, bool)
	// Property looks up a property declared on the entity by exact name.
	Property(name string) (Suppressible, bool)
}

// Engine evaluates an immutable RuleSet against class records.
// It is safe for concurrent use.
type Engine struct {
	rules RuleSet
	sep   string
}

// New returns an engine holding a private copy of rules.
func New(rules RuleSet) *Engine {
	rules = rules.Clone()
	sep := rules.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Engine{rules: rules, sep: sep}
}

// Default returns an engine loaded with the built-in framework rules.
func Default() *Engine {
	return New(DefaultRules())
}

// Rules returns a copy of the tables the engine evaluates.
func (e *Engine) Rules() RuleSet {
	return e.rules.Clone()
}

// Apply evaluates every rule table against c and records the resulting
// suppressions on c and its members. Calling it again on the same record
// changes nothing.
func (e *Engine) Apply(c ClassLike) error {
	if isNil(c) {
		return ErrNilClass
	}

	name := c.Name()
	parents := c.ParentClasses()
	traits := c.UsedTraits()

	for _, issue := range sortedKeys(e.rules.ByClass) {
		if slices.Contains(e.rules.ByClass[issue], name) {
			add(c, issue)
		}
	}

	for _, issue := range sortedKeys(e.rules.ByClassMethod) {
		for _, method := range e.rules.ByClassMethod[issue][name] {
			if m, ok := c.Method(method); ok {
				add(m, issue)
			}
		}
	}

	for _, issue := range sortedKeys(e.rules.ByNamespace) {
		for _, ns := range e.rules.ByNamespace[issue] {
			if !e.inNamespace(name, ns) {
				continue
			}
			add(c, issue)
			break
		}
	}

	for _, issue := range sortedKeys(e.rules.ByNamespaceMethod) {
		byNamespace := e.rules.ByNamespaceMethod[issue]
		for _, ns := range sortedKeys(byNamespace) {
			if !e.inNamespace(name, ns) {
				continue
			}
			for _, method := range byNamespace[ns] {
				if m, ok := c.Method(method); ok {
					add(m, issue)
				}
			}
		}
	}

	for _, issue := range sortedKeys(e.rules.ByParentClass) {
		if intersects(parents, e.rules.ByParentClass[issue]) {
			add(c, issue)
		}
	}

	for _, issue := range sortedKeys(e.rules.ByParentClassProperty) {
		byParent := e.rules.ByParentClassProperty[issue]
		for _, parent := range sortedKeys(byParent) {
			if !slices.Contains(parents, parent) {
				continue
			}
			for _, property := range byParent[parent] {
				if p, ok := c.Property(property); ok {
					add(p, issue)
				}
			}
		}
	}

	for _, issue := range sortedKeys(e.rules.ByUsedTraits) {
		if intersects(traits, e.rules.ByUsedTraits[issue]) {
			add(c, issue)
		}
	}

	return nil
}

// inNamespace reports whether name lives under ns. A bare prefix is not
// enough: App\Jobs matches App\Jobs\Send but not App\JobsRunner\Send.
func (e *Engine) inNamespace(name, ns string) bool {
	return strings.HasPrefix(name, ns+e.sep)
}

// isNil also catches a nil pointer wrapped in a non-nil interface.
func isNil(c ClassLike) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return v.IsNil()
	}
	return false
}

func add(s Suppressible, issue string) {
	if s == nil || slices.Contains(s.SuppressedIssues(), issue) {
		return
	}
	s.Suppress(issue)
}

func intersects(have, want []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
