package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tomyan/screenwrap/wrap"
)

// TextValuer is implemented by results with an obvious plain-text form.
type TextValuer interface {
	TextValue() string
}

// SnapshotResult is the rendered fragment of a fixture.
type SnapshotResult struct {
	File string `json:"file"`
	HTML string `json:"html"`
}

// ElementResult describes a matched element.
type ElementResult struct {
	Tag        string            `json:"tag,omitempty"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// QueryResult lists the elements a query matched.
type QueryResult struct {
	By       string          `json:"by"`
	Value    string          `json:"value"`
	Count    int             `json:"count"`
	Elements []ElementResult `json:"elements"`
}

// ActResult reports an action and the fragment after it ran.
type ActResult struct {
	Action string        `json:"action"`
	Target ElementResult `json:"target"`
	HTML   string        `json:"html"`
}

func (r SnapshotResult) TextValue() string { return r.HTML }
func (r ActResult) TextValue() string      { return r.HTML }

func (r QueryResult) TextValue() string {
	lines := make([]string, 0, len(r.Elements))
	for _, el := range r.Elements {
		lines = append(lines, el.TextValue())
	}
	return strings.Join(lines, "\n")
}

func (r ElementResult) TextValue() string {
	var b strings.Builder
	b.WriteString("<" + r.Tag)
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, r.Attributes[k])
	}
	b.WriteString("> " + r.Text)
	return b.String()
}

// describedElement is implemented by the dom and browser elements.
type describedElement interface {
	wrap.Element
	Tag() string
	Attributes() map[string]string
}

// describe captures what an engine element exposes. Text is whitespace
// collapsed.
func describe(el wrap.Element) ElementResult {
	r := ElementResult{Text: strings.Join(strings.Fields(el.Text()), " ")}
	if d, ok := el.(describedElement); ok {
		r.Tag = d.Tag()
		if attrs := d.Attributes(); len(attrs) > 0 {
			r.Attributes = attrs
		}
	}
	return r
}

func outputResult(cfg *Config, v interface{}) error {
	switch cfg.Output {
	case "json":
		enc := json.NewEncoder(cfg.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "ndjson":
		return json.NewEncoder(cfg.Stdout).Encode(v)
	case "text":
		if tv, ok := v.(TextValuer); ok {
			_, err := fmt.Fprintln(cfg.Stdout, tv.TextValue())
			return err
		}
		// Fall back to JSON for complex types
		enc := json.NewEncoder(cfg.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format: %s", cfg.Output)
}
