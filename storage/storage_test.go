package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spechtlabs/convsuppress/suppress"
)

func TestDecodeYAMLStream(t *testing.T) {
	input := `name: App\Http\Middleware\RedirectIfAuthenticated
methods:
  Handle: {}
---
- name: App\Console\Commands\Inspire
  parent_classes: [Illuminate\Console\Command]
  properties:
    description:
    signature: {}
- name: App\Jobs\Send
  used_traits: [Illuminate\Queue\InteractsWithQueue]
  suppressed_issues: [MissingReturnType]
  declaring_file: app/Jobs/Send.php
`
	classes, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(classes) != 3 {
		t.Fatalf("Decode() returned %d classes, want 3", len(classes))
	}

	m, ok := classes[0].Method("handle")
	if !ok {
		t.Fatal("method handle not found")
	}
	if got := m.(*MethodStorage).CasedName; got != "Handle" {
		t.Errorf("CasedName = %q, want %q", got, "Handle")
	}

	if _, ok := classes[1].Property("description"); !ok {
		t.Error("null property was dropped")
	}
	if got := classes[1].ParentClasses(); !reflect.DeepEqual(got, []string{`Illuminate\Console\Command`}) {
		t.Errorf("ParentClasses() = %v", got)
	}

	if got := classes[2].SuppressedIssues(); !reflect.DeepEqual(got, []string{"MissingReturnType"}) {
		t.Errorf("SuppressedIssues() = %v", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	input := `[{"name": "App\\Http\\Kernel"}, {"name": "App\\Jobs\\Send", "methods": {"HANDLE": {}}}]`

	classes, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("Decode() returned %d classes, want 2", len(classes))
	}
	if got := classes[0].Name(); got != `App\Http\Kernel` {
		t.Errorf("Name() = %q", got)
	}
	if _, ok := classes[1].Method("Handle"); !ok {
		t.Error("method lookup must ignore case")
	}
}

func TestDecodeMergesMethodsDifferingInCase(t *testing.T) {
	input := `name: App\Jobs\Send
methods:
  handle: {suppressed_issues: [PossiblyUnusedMethod, MissingReturnType]}
  Handle: {suppressed_issues: [PossiblyUnusedMethod]}
`
	for i := 0; i < 20; i++ {
		classes, err := Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		c := classes[0]
		if len(c.Methods) != 1 {
			t.Fatalf("got %d methods, want 1", len(c.Methods))
		}
		m := c.Methods["handle"]
		if m.CasedName != "Handle" {
			t.Errorf("CasedName = %q, want %q", m.CasedName, "Handle")
		}
		if want := []string{"PossiblyUnusedMethod", "MissingReturnType"}; !reflect.DeepEqual(m.Issues, want) {
			t.Fatalf("issues = %v, want %v", m.Issues, want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "null record", input: "- name: A\n- null\n", wantErr: ErrNullRecord},
		{name: "null document", input: "null\n", wantErr: ErrNullRecord},
		{name: "malformed", input: "name: [unclosed\n"},
		{name: "wrong type", input: "name: {a: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	classes, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(classes) != 0 {
		t.Errorf("Decode() returned %d classes, want 0", len(classes))
	}
}

func TestApplyToStorage(t *testing.T) {
	c := &ClassStorage{
		ClassName: `App\Console\Commands\Inspire`,
		Parents:   []string{`Illuminate\Console\Command`},
	}
	c.AddProperty("description")
	c.AddMethod("handle")

	engine := suppress.Default()
	for i := 0; i < 2; i++ {
		if err := engine.Apply(c); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}

	if want := []string{"PropertyNotSetInConstructor"}; !reflect.DeepEqual(c.Issues, want) {
		t.Errorf("class issues = %v, want %v", c.Issues, want)
	}
	if want := []string{"NonInvariantDocblockPropertyType"}; !reflect.DeepEqual(c.Properties["description"].Issues, want) {
		t.Errorf("description issues = %v, want %v", c.Properties["description"].Issues, want)
	}
	if c.Methods["handle"].Issues != nil {
		t.Errorf("handle issues = %v, want none", c.Methods["handle"].Issues)
	}
}

func TestEncode(t *testing.T) {
	c := &ClassStorage{ClassName: `App\Jobs\Send`}
	c.AddMethod("Handle").Suppress("PossiblyUnusedMethod")

	var buf bytes.Buffer
	if err := Encode(&buf, []*ClassStorage{c}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	methods := got[0]["methods"].(map[string]any)
	handle := methods["handle"].(map[string]any)
	if handle["cased_name"] != "Handle" {
		t.Errorf("cased_name = %v, want Handle", handle["cased_name"])
	}

	buf.Reset()
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Encode(nil) = %q, want []", buf.String())
	}
}
