package suppress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSeparator separates namespace segments in fully-qualified names.
const DefaultSeparator = `\`

// Table maps an issue identifier to a list of match keys.
type Table map[string][]string

// NestedTable maps an issue identifier to match keys, each carrying the
// member names the issue is suppressed on.
type NestedTable map[string]map[string][]string

// RuleSet holds the seven rule tables evaluated by an Engine.
//
// The YAML form uses the same keys as the struct tags, for example:
//
//	separator: '\'
//	by-class:
//	  UnusedClass:
//	    - App\Http\Kernel
//	by-namespace-method:
//	  PossiblyUnusedMethod:
//	    App\Jobs: [handle]
type RuleSet struct {
	// Separator follows a namespace prefix. Empty means DefaultSeparator.
	Separator string `yaml:"separator,omitempty"`

	ByClass               Table       `yaml:"by-class,omitempty"`
	ByClassMethod         NestedTable `yaml:"by-class-method,omitempty"`
	ByNamespace           Table       `yaml:"by-namespace,omitempty"`
	ByNamespaceMethod     NestedTable `yaml:"by-namespace-method,omitempty"`
	ByParentClass         Table       `yaml:"by-parent-class,omitempty"`
	ByParentClassProperty NestedTable `yaml:"by-parent-class-property,omitempty"`
	ByUsedTraits          Table       `yaml:"by-used-traits,omitempty"`
}

// LoadRules reads a YAML rule file.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, err
	}
	rs, err := ParseRules(data)
	if err != nil {
		return RuleSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// ParseRules decodes a YAML rule document. Unknown keys are an error.
func ParseRules(data []byte) (RuleSet, error) {
	var rs RuleSet

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		if errors.Is(err, io.EOF) {
			return RuleSet{}, nil
		}
		return RuleSet{}, fmt.Errorf("parse rules: %w", err)
	}

	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// Validate rejects empty issue identifiers and empty match keys.
func (r RuleSet) Validate() error {
	for _, t := range r.tables() {
		for issue, keys := range t.table {
			if issue == "" {
				return fmt.Errorf("%s: empty issue identifier", t.name)
			}
			if slices.Contains(keys, "") {
				return fmt.Errorf("%s: %s: empty match key", t.name, issue)
			}
		}
	}
	for _, t := range r.nestedTables() {
		for issue, byKey := range t.table {
			if issue == "" {
				return fmt.Errorf("%s: empty issue identifier", t.name)
			}
			for key, members := range byKey {
				if key == "" {
					return fmt.Errorf("%s: %s: empty match key", t.name, issue)
				}
				if slices.Contains(members, "") {
					return fmt.Errorf("%s: %s: %s: empty member name", t.name, issue, key)
				}
			}
		}
	}
	return nil
}

// Marshal renders the rule set as YAML.
func (r RuleSet) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Issues returns every issue identifier mentioned by any table, sorted.
func (r RuleSet) Issues() []string {
	var issues []string
	for _, t := range r.tables() {
		issues = appendMissing(issues, sortedKeys(t.table)...)
	}
	for _, t := range r.nestedTables() {
		issues = appendMissing(issues, sortedKeys(t.table)...)
	}
	slices.Sort(issues)
	return issues
}

// Clone returns a deep copy.
func (r RuleSet) Clone() RuleSet {
	return RuleSet{
		Separator:             r.Separator,
		ByClass:               r.ByClass.merge(nil),
		ByClassMethod:         r.ByClassMethod.merge(nil),
		ByNamespace:           r.ByNamespace.merge(nil),
		ByNamespaceMethod:     r.ByNamespaceMethod.merge(nil),
		ByParentClass:         r.ByParentClass.merge(nil),
		ByParentClassProperty: r.ByParentClassProperty.merge(nil),
		ByUsedTraits:          r.ByUsedTraits.merge(nil),
	}
}

// Merge returns the union of r and other. A non-empty separator in other
// replaces the one in r.
func (r RuleSet) Merge(other RuleSet) RuleSet {
	sep := r.Separator
	if other.Separator != "" {
		sep = other.Separator
	}
	return RuleSet{
		Separator:             sep,
		ByClass:               r.ByClass.merge(other.ByClass),
		ByClassMethod:         r.ByClassMethod.merge(other.ByClassMethod),
		ByNamespace:           r.ByNamespace.merge(other.ByNamespace),
		ByNamespaceMethod:     r.ByNamespaceMethod.merge(other.ByNamespaceMethod),
		ByParentClass:         r.ByParentClass.merge(other.ByParentClass),
		ByParentClassProperty: r.ByParentClassProperty.merge(other.ByParentClassProperty),
		ByUsedTraits:          r.ByUsedTraits.merge(other.ByUsedTraits),
	}
}

// WithoutIssues returns a copy with every rule for the given issues removed.
func (r RuleSet) WithoutIssues(issues ...string) RuleSet {
	out := r.Clone()
	for _, issue := range issues {
		delete(out.ByClass, issue)
		delete(out.ByClassMethod, issue)
		delete(out.ByNamespace, issue)
		delete(out.ByNamespaceMethod, issue)
		delete(out.ByParentClass, issue)
		delete(out.ByParentClassProperty, issue)
		delete(out.ByUsedTraits, issue)
	}
	return out
}

// WithRootNamespace returns a copy in which every key under
// DefaultRootNamespace is moved under ns instead.
func (r RuleSet) WithRootNamespace(ns string) RuleSet {
	sep := r.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	ns = strings.Trim(ns, sep)
	if ns == "" || ns == DefaultRootNamespace {
		return r.Clone()
	}

	rebase := func(key string) string {
		if key == DefaultRootNamespace {
			return ns
		}
		if rest, ok := strings.CutPrefix(key, DefaultRootNamespace+sep); ok {
			return ns + sep + rest
		}
		return key
	}

	return RuleSet{
		Separator:             r.Separator,
		ByClass:               r.ByClass.rekey(rebase),
		ByClassMethod:         r.ByClassMethod.rekey(rebase),
		ByNamespace:           r.ByNamespace.rekey(rebase),
		ByNamespaceMethod:     r.ByNamespaceMethod.rekey(rebase),
		ByParentClass:         r.ByParentClass.rekey(rebase),
		ByParentClassProperty: r.ByParentClassProperty.rekey(rebase),
		ByUsedTraits:          r.ByUsedTraits.rekey(rebase),
	}
}

type namedTable struct {
	name  string
	table Table
}

type namedNestedTable struct {
	name  string
	table NestedTable
}

func (r RuleSet) tables() []namedTable {
	return []namedTable{
		{"by-class", r.ByClass},
		{"by-namespace", r.ByNamespace},
		{"by-parent-class", r.ByParentClass},
		{"by-used-traits", r.ByUsedTraits},
	}
}

func (r RuleSet) nestedTables() []namedNestedTable {
	return []namedNestedTable{
		{"by-class-method", r.ByClassMethod},
		{"by-namespace-method", r.ByNamespaceMethod},
		{"by-parent-class-property", r.ByParentClassProperty},
	}
}

// merge returns a fresh table holding t plus every key of o not already in t.
func (t Table) merge(o Table) Table {
	if t == nil && o == nil {
		return nil
	}
	out := make(Table, len(t))
	for issue, keys := range t {
		out[issue] = slices.Clone(keys)
	}
	for issue, keys := range o {
		out[issue] = appendMissing(out[issue], keys...)
	}
	return out
}

func (t Table) rekey(f func(string) string) Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for issue, keys := range t {
		var rekeyed []string
		for _, k := range keys {
			rekeyed = appendMissing(rekeyed, f(k))
		}
		out[issue] = rekeyed
	}
	return out
}

func (t NestedTable) merge(o NestedTable) NestedTable {
	if t == nil && o == nil {
		return nil
	}
	out := make(NestedTable, len(t))
	for _, src := range []NestedTable{t, o} {
		for issue, byKey := range src {
			if out[issue] == nil {
				out[issue] = make(map[string][]string, len(byKey))
			}
			for key, members := range byKey {
				out[issue][key] = appendMissing(out[issue][key], members...)
			}
		}
	}
	return out
}

func (t NestedTable) rekey(f func(string) string) NestedTable {
	if t == nil {
		return nil
	}
	out := make(NestedTable, len(t))
	for issue, byKey := range t {
		out[issue] = make(map[string][]string, len(byKey))
		for key, members := range byKey {
			k := f(key)
			out[issue][k] = appendMissing(out[issue][k], members...)
		}
	}
	return out
}

// appendMissing appends each item not already present in dst.
func appendMissing(dst []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}
