// Package schemafile loads bitwire schema descriptions from JSON or YAML
// documents supplied by host applications.
//
// Two shapes are accepted. The bare array form lists [name, type] pairs,
// with a nested array standing in for a repeated structure:
//
//	[["id","u8"],["flag","bool"],["tags",[["t","cstring"]]]]
//
// The object form adds a delta specification; a delta entry is a single
// field name or a group of names sharing one presence bit:
//
//	{"fields": [["seq","u16"],["x","i12"],["y","i12"]],
//	 "deltas": [["x","y"]]}
package schemafile

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/bitwire"
)

// ParseJSON parses a JSON schema document.
func ParseJSON(data []byte) (*bitwire.Schema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema document: %w", err)
	}
	return build(doc)
}

// ParseYAML parses a YAML schema document of the same shapes.
func ParseYAML(data []byte) (*bitwire.Schema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema document: %w", err)
	}
	return build(doc)
}

func build(doc any) (*bitwire.Schema, error) {
	switch t := doc.(type) {
	case []any:
		return buildFields(t)
	case map[string]any:
		rawFields, ok := t["fields"]
		if !ok {
			return nil, fmt.Errorf("schema object needs a %q entry", "fields")
		}
		entries, ok := rawFields.([]any)
		if !ok {
			return nil, fmt.Errorf("%q must be a field array", "fields")
		}
		s, err := buildFields(entries)
		if err != nil {
			return nil, err
		}
		if rawDeltas, ok := t["deltas"]; ok {
			groups, err := parseDeltas(rawDeltas)
			if err != nil {
				return nil, err
			}
			return s.WithDeltas(groups...)
		}
		return s, nil
	}
	return nil, fmt.Errorf("schema document must be a field array or an object, got %T", doc)
}

func buildFields(entries []any) (*bitwire.Schema, error) {
	fields := make([]bitwire.Field, 0, len(entries))
	for i, e := range entries {
		pair, ok := e.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("field %d: want a [name, type] pair", i)
		}
		name, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("field %d: name must be a string, got %T", i, pair[0])
		}
		switch typ := pair[1].(type) {
		case string:
			fields = append(fields, bitwire.F(name, typ))
		case []any:
			elem, err := buildFields(typ)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, bitwire.Array(name, elem))
		case map[string]any:
			elem, err := build(typ)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields = append(fields, bitwire.Array(name, elem))
		default:
			return nil, fmt.Errorf("field %q: unsupported type %T", name, pair[1])
		}
	}
	return bitwire.NewSchema(fields...)
}

func parseDeltas(raw any) ([][]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an array, got %T", "deltas", raw)
	}
	groups := make([][]string, 0, len(list))
	for i, e := range list {
		switch t := e.(type) {
		case string:
			groups = append(groups, []string{t})
		case []any:
			g := make([]string, 0, len(t))
			for _, n := range t {
				name, ok := n.(string)
				if !ok {
					return nil, fmt.Errorf("delta group %d: member must be a string, got %T", i, n)
				}
				g = append(g, name)
			}
			groups = append(groups, g)
		default:
			return nil, fmt.Errorf("delta entry %d: want a name or a group, got %T", i, e)
		}
	}
	return groups, nil
}
