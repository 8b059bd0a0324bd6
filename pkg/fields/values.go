package fields

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Values is the flat name-to-value set a fill run consumes. Accepted shapes
// per field kind:
//
//   - text: string or any scalar (rendered with fmt)
//   - checkbox: bool under "Name__N", a bool under the bare name, or a list
//     of on-state export names under the bare name for grouped boxes
//   - radio / single choice: string, display label or export value
//   - multi choice: []string (or []any of strings)
type Values map[string]any

// TextFor resolves the value for a text widget. The second return reports
// whether a value was supplied at all.
func (v Values) TextFor(f Field) (string, bool, error) {
	raw, ok := v[f.Name]
	if !ok {
		return "", false, nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return "", true, fmt.Errorf("fields: %s: %w", f.Name, err)
	}
	return s, true, nil
}

// CheckboxFor resolves the checked state for a checkbox widget. Per-widget
// "Name__N" keys win over the bare name; a list under the bare name checks
// the widget when its on-state appears in the list; a bare bool applies to
// every widget of the group.
func (v Values) CheckboxFor(f Field) (bool, bool, error) {
	if raw, ok := v[f.Key()]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return false, true, fmt.Errorf("fields: %s: checkbox value must be a bool, got %T", f.Key(), raw)
		}
		return b, true, nil
	}
	raw, ok := v[f.Name]
	if !ok {
		return false, false, nil
	}
	switch val := raw.(type) {
	case bool:
		return val, true, nil
	default:
		states, err := stringSlice(raw)
		if err != nil {
			return false, true, fmt.Errorf("fields: %s: checkbox group value must be a bool or a list of on-states, got %T", f.Name, raw)
		}
		on := f.OnState
		for _, s := range states {
			if s == on || strings.TrimPrefix(s, "/") == on {
				return true, true, nil
			}
		}
		return false, true, nil
	}
}

// RadioFor resolves the selected export value for a radio group.
func (v Values) RadioFor(f Field) (string, bool, error) {
	raw, ok := v[f.Name]
	if !ok {
		return "", false, nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return "", true, fmt.Errorf("fields: %s: %w", f.Name, err)
	}
	return f.DisplayToExport(s), true, nil
}

// ChoiceFor resolves the selected export values for a combo or list box.
// Display labels are mapped to export values; multi-select fields accept a
// list, everything else a single string.
func (v Values) ChoiceFor(f Field) ([]string, bool, error) {
	raw, ok := v[f.Name]
	if !ok {
		return nil, false, nil
	}
	if f.Multi {
		items, err := stringSlice(raw)
		if err != nil {
			// A lone string still selects a single entry.
			s, serr := scalarString(raw)
			if serr != nil {
				return nil, true, fmt.Errorf("fields: %s: multi-select value must be a list of strings, got %T", f.Name, raw)
			}
			items = []string{s}
		}
		exports := make([]string, len(items))
		for i, item := range items {
			exports[i] = f.DisplayToExport(item)
		}
		return exports, true, nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return nil, true, fmt.Errorf("fields: %s: %w", f.Name, err)
	}
	return []string{f.DisplayToExport(s)}, true, nil
}

// UnknownNames reports value keys that address no widget of the form. Keys
// match either a widget's bare name or its per-widget checkbox key.
func (v Values) UnknownNames(form Form) []string {
	known := make(map[string]struct{}, len(form.Fields)*2)
	for _, f := range form.Fields {
		known[f.Name] = struct{}{}
		known[f.Key()] = struct{}{}
	}
	var unknown []string
	for name := range v {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// DecodeValues parses a YAML or JSON document into Values. The document must
// be a flat mapping of field names to values.
func DecodeValues(data []byte) (Values, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fields: decode values: %w", err)
	}
	return Values(raw), nil
}

// LoadValuesFile reads a YAML or JSON values file from disk.
func LoadValuesFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fields: read values file: %w", err)
	}
	return DecodeValues(data)
}

// ParseAssignment splits a "name=value" pair as used by CLI -set flags.
// "true"/"false" become bools, comma-separated values become lists, anything
// else stays a string.
func ParseAssignment(s string) (string, any, error) {
	name, rawValue, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("fields: assignment %q must have the form name=value", s)
	}
	name = strings.TrimSpace(name)
	switch rawValue {
	case "true":
		return name, true, nil
	case "false":
		return name, false, nil
	}
	if strings.Contains(rawValue, ",") {
		parts := strings.Split(rawValue, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return name, items, nil
	}
	return name, rawValue, nil
}

func scalarString(raw any) (string, error) {
	switch val := raw.(type) {
	case string:
		return val, nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	case []any, []string, map[string]any:
		return "", fmt.Errorf("value must be a scalar, got %T", raw)
	default:
		return fmt.Sprint(val), nil
	}
}

func stringSlice(raw any) ([]string, error) {
	switch val := raw.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value must be a list, got %T", raw)
	}
}
