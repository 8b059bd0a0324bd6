package fields

import "fmt"

// Kind is the simplified enum for form-friendly field kinds.
type Kind string

const (
	KindText       Kind = "text"
	KindCheckbox   Kind = "checkbox"
	KindRadio      Kind = "radio"
	KindCombo      Kind = "combo"
	KindList       Kind = "list"
	KindPushbutton Kind = "pushbutton"
	KindSignature  Kind = "signature"
	KindUnknown    Kind = "unknown"
)

// Option is a single choice entry. PDF /Opt arrays hold either plain strings
// or [export, display] pairs; for plain strings Export equals Display.
type Option struct {
	Export  string `json:"export"`
	Display string `json:"display,omitempty"`
}

// Rect is a widget rectangle in PDF user space (lower-left origin).
type Rect struct {
	LLX float64 `json:"llx"`
	LLY float64 `json:"lly"`
	URX float64 `json:"urx"`
	URY float64 `json:"ury"`
}

// Width reports the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.URX - r.LLX }

// Height reports the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.URY - r.LLY }

// Field models a single widget of an interactive form. Radio groups and
// multi-widget checkboxes surface one Field per widget; WidgetIndex counts
// widgets sharing the same name in page order, which is the addressing scheme
// checkbox values use.
type Field struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Multi       bool     `json:"multi,omitempty"`
	Editable    bool     `json:"editable,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Value       []string `json:"value,omitempty"`
	Checked     bool     `json:"checked,omitempty"`
	OnState     string   `json:"onState,omitempty"`
	Page        int      `json:"page"`
	Rect        Rect     `json:"rect"`
	WidgetIndex int      `json:"widgetIndex"`
}

// Key returns the name under which a supplied value addresses this widget.
// Checkboxes are addressed per widget as "Name__N"; every other kind uses the
// bare field name.
func (f Field) Key() string {
	if f.Kind == KindCheckbox {
		return fmt.Sprintf("%s__%d", f.Name, f.WidgetIndex)
	}
	return f.Name
}

// Fillable reports whether the field can receive a value at all.
func (f Field) Fillable() bool {
	switch f.Kind {
	case KindText, KindCheckbox, KindRadio, KindCombo, KindList:
		return f.Name != ""
	default:
		return false
	}
}

// Choice reports whether the field is a combo or list box.
func (f Field) Choice() bool {
	return f.Kind == KindCombo || f.Kind == KindList
}

// DisplayOptions returns the human-facing option labels in declaration order.
func (f Field) DisplayOptions() []string {
	if len(f.Options) == 0 {
		return nil
	}
	out := make([]string, len(f.Options))
	for i, opt := range f.Options {
		out[i] = opt.Display
	}
	return out
}

// DisplayToExport maps a display label to its export value. Export values pass
// through untouched, as do strings that match no option; the PDF keeps
// whatever the caller supplied in that case.
func (f Field) DisplayToExport(s string) string {
	for _, opt := range f.Options {
		if opt.Export == s {
			return s
		}
	}
	for _, opt := range f.Options {
		if opt.Display == s {
			return opt.Export
		}
	}
	return s
}

// ExportToDisplay maps an export value back to its display label.
func (f Field) ExportToDisplay(s string) string {
	for _, opt := range f.Options {
		if opt.Export == s {
			return opt.Display
		}
	}
	return s
}

// Form is the flat widget list of a document, in page order.
type Form struct {
	Fields []Field `json:"fields"`
}

// Named returns every widget carrying the given field name.
func (f Form) Named(name string) []Field {
	var out []Field
	for _, field := range f.Fields {
		if field.Name == name {
			out = append(out, field)
		}
	}
	return out
}

// Lookup returns the first widget with the given name.
func (f Form) Lookup(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
