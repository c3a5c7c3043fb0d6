// Package storage provides class-like records in the shape a host analyzer
// hands over after visiting a class, and the codec used to exchange them
// with the convsuppress command.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spechtlabs/convsuppress/suppress"
)

// ClassStorage describes one analyzed class, interface or trait.
type ClassStorage struct {
	ClassName  string                      `yaml:"name" json:"name"`
	Parents    []string                    `yaml:"parent_classes,omitempty" json:"parent_classes,omitempty"`
	Traits     []string                    `yaml:"used_traits,omitempty" json:"used_traits,omitempty"`
	Methods    map[string]*MethodStorage   `yaml:"methods,omitempty" json:"methods,omitempty"`
	Properties map[string]*PropertyStorage `yaml:"properties,omitempty" json:"properties,omitempty"`
	Issues     []string                    `yaml:"suppressed_issues,omitempty" json:"suppressed_issues,omitempty"`
}

// MethodStorage describes a method declared on a class.
type MethodStorage struct {
	CasedName string   `yaml:"cased_name,omitempty" json:"cased_name,omitempty"`
	Issues    []string `yaml:"suppressed_issues,omitempty" json:"suppressed_issues,omitempty"`
}

// PropertyStorage describes a property declared on a class.
type PropertyStorage struct {
	Issues []string `yaml:"suppressed_issues,omitempty" json:"suppressed_issues,omitempty"`
}

var _ suppress.ClassLike = (*ClassStorage)(nil)

func (c *ClassStorage) Name() string               { return c.ClassName }
func (c *ClassStorage) ParentClasses() []string    { return c.Parents }
func (c *ClassStorage) UsedTraits() []string       { return c.Traits }
func (c *ClassStorage) SuppressedIssues() []string { return c.Issues }
func (c *ClassStorage) Suppress(issue string)      { c.Issues = append(c.Issues, issue) }

// Method looks up a method by name, ignoring case.
func (c *ClassStorage) Method(name string) (suppress.Suppressible, bool) {
	m := c.Methods[strings.ToLower(name)]
	if m == nil {
		return nil, false
	}
	return m, true
}

// Property looks up a property by its exact name.
func (c *ClassStorage) Property(name string) (suppress.Suppressible, bool) {
	p := c.Properties[name]
	if p == nil {
		return nil, false
	}
	return p, true
}

// AddMethod declares a method, keyed by its lower-cased name.
func (c *ClassStorage) AddMethod(name string) *MethodStorage {
	if c.Methods == nil {
		c.Methods = make(map[string]*MethodStorage)
	}
	m := &MethodStorage{CasedName: name}
	c.Methods[strings.ToLower(name)] = m
	return m
}

// AddProperty declares a property.
func (c *ClassStorage) AddProperty(name string) *PropertyStorage {
	if c.Properties == nil {
		c.Properties = make(map[string]*PropertyStorage)
	}
	p := &PropertyStorage{}
	c.Properties[name] = p
	return p
}

// normalize re-keys methods by lower-cased name, keeping the declared
// spelling in CasedName. Keys that differ only in case collapse into the
// first one in sorted order, which also receives the others' issues.
func (c *ClassStorage) normalize() {
	for name, p := range c.Properties {
		if p == nil {
			c.Properties[name] = &PropertyStorage{}
		}
	}

	if len(c.Methods) == 0 {
		return
	}
	methods := make(map[string]*MethodStorage, len(c.Methods))
	for _, name := range slices.Sorted(maps.Keys(c.Methods)) {
		m := c.Methods[name]
		if m == nil {
			m = &MethodStorage{}
		}
		if m.CasedName == "" {
			m.CasedName = name
		}

		key := strings.ToLower(name)
		prev, ok := methods[key]
		if !ok {
			methods[key] = m
			continue
		}
		for _, issue := range m.Issues {
			if !slices.Contains(prev.Issues, issue) {
				prev.Issues = append(prev.Issues, issue)
			}
		}
	}
	c.Methods = methods
}

func (m *MethodStorage) SuppressedIssues() []string { return m.Issues }
func (m *MethodStorage) Suppress(issue string)      { m.Issues = append(m.Issues, issue) }

func (p *PropertyStorage) SuppressedIssues() []string { return p.Issues }
func (p *PropertyStorage) Suppress(issue string)      { p.Issues = append(p.Issues, issue) }

// ErrNullRecord is returned by Decode for a null entry in the input.
var ErrNullRecord = errors.New("null class record")

// Decode reads class records from r. The input is a stream of YAML
// documents, each holding one record or a list of records. JSON objects and
// arrays are valid YAML and are accepted as well. Fields the records do not
// model are ignored.
func Decode(r io.Reader) ([]*ClassStorage, error) {
	var classes []*ClassStorage

	dec := yaml.NewDecoder(r)
	for doc := 1; ; doc++ {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return classes, nil
			}
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		if len(node.Content) == 0 {
			continue
		}

		content := node.Content[0]
		var batch []*ClassStorage
		switch content.Kind {
		case yaml.SequenceNode:
			if err := content.Decode(&batch); err != nil {
				return nil, fmt.Errorf("document %d: %w", doc, err)
			}
		default:
			var c *ClassStorage
			if err := content.Decode(&c); err != nil {
				return nil, fmt.Errorf("document %d: %w", doc, err)
			}
			batch = append(batch, c)
		}

		for i, c := range batch {
			if c == nil {
				return nil, fmt.Errorf("document %d, record %d: %w", doc, i+1, ErrNullRecord)
			}
			c.normalize()
		}
		classes = append(classes, batch...)
	}
}

// Encode writes classes to w as an indented JSON array.
func Encode(w io.Writer, classes []*ClassStorage) error {
	if classes == nil {
		classes = []*ClassStorage{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(classes)
}
