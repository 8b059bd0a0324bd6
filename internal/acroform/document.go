// Package acroform reads and mutates interactive PDF forms through pdfcpu.
// It owns every direct touch of the PDF object model: the rest of the module
// only sees the fields types.
package acroform

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/goliatone/go-formfill/pkg/fields"
)

// Field flags from the PDF spec (table 226 ff). Bit positions are 1-based in
// the spec; masks here are the shifted values.
const (
	flagRadio       = 1 << 15 // Btn: radio group
	flagPushbutton  = 1 << 16 // Btn: pushbutton
	flagCombo       = 1 << 17 // Ch: combo box (dropdown)
	flagEdit        = 1 << 18 // Ch: editable combo
	flagMultiSelect = 1 << 21 // Ch: multi-select list
)

// maxParentDepth bounds /Parent chain walks against malformed cycles.
const maxParentDepth = 32

// Document wraps a parsed PDF context.
type Document struct {
	ctx *model.Context
}

// Open parses a PDF from disk.
func Open(path string) (*Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("acroform: read %s: %w", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("acroform: page count: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// OpenReader parses a PDF from a seekable reader.
func OpenReader(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("acroform: read: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("acroform: page count: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// Save writes the (possibly mutated) document to disk.
func (d *Document) Save(path string) error {
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("acroform: write %s: %w", path, err)
	}
	return nil
}

// Write streams the document to w.
func (d *Document) Write(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("acroform: write: %w", err)
	}
	return nil
}

// PageCount reports the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// widget pairs a widget annotation with the dictionary that owns its name and
// value. For merged widgets both point at the same dict.
type widget struct {
	page  int
	annot types.Dict
	field types.Dict
	meta  fields.Field
}

// widgets walks every page's annotations in order and collects the form
// widgets. The traversal order defines the per-name widget indices used for
// checkbox addressing, so it must stay stable.
func (d *Document) widgets() ([]widget, error) {
	var out []widget
	counts := map[string]int{}
	for p := 1; p <= d.ctx.PageCount; p++ {
		pageDict, _, _, err := d.ctx.PageDict(p, false)
		if err != nil {
			return nil, fmt.Errorf("acroform: page %d: %w", p, err)
		}
		if pageDict == nil {
			continue
		}
		obj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := d.ctx.DereferenceArray(obj)
		if err != nil || annots == nil {
			continue
		}
		for _, ref := range annots {
			annot, err := d.ctx.DereferenceDict(ref)
			if err != nil || annot == nil {
				continue
			}
			if sub := annot.NameEntry("Subtype"); sub == nil || *sub != "Widget" {
				continue
			}
			w, ok := d.classify(p, annot, counts)
			if ok {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// classify builds the field metadata for one widget annotation. Widgets
// without a /T anywhere in their parent chain cannot be addressed and are
// skipped.
func (d *Document) classify(page int, annot types.Dict, counts map[string]int) (widget, bool) {
	name, ok := d.inheritedString(annot, "T")
	if !ok || name == "" {
		return widget{}, false
	}

	w := widget{
		page:  page,
		annot: annot,
		field: d.fieldDictFor(annot),
		meta: fields.Field{
			Name: name,
			Kind: fields.KindUnknown,
			Page: page,
			Rect: d.rectOf(annot),
		},
	}

	ft, _ := d.inheritedName(annot, "FT")
	ff := d.inheritedInt(annot, "Ff")

	switch ft {
	case "Tx":
		w.meta.Kind = fields.KindText
		if s, ok := d.inheritedString(annot, "V"); ok && s != "" {
			w.meta.Value = []string{s}
		}
	case "Btn":
		switch {
		case ff&flagPushbutton != 0:
			w.meta.Kind = fields.KindPushbutton
		case ff&flagRadio != 0:
			w.meta.Kind = fields.KindRadio
			w.meta.OnState = d.onState(annot)
			w.meta.Checked = d.widgetChecked(annot)
			if v, ok := d.inheritedName(annot, "V"); ok && v != "Off" {
				w.meta.Value = []string{v}
			}
		default:
			w.meta.Kind = fields.KindCheckbox
			w.meta.OnState = d.onState(annot)
			w.meta.Checked = d.widgetChecked(annot)
			counts[name]++
			w.meta.WidgetIndex = counts[name]
		}
	case "Ch":
		if ff&flagCombo != 0 {
			w.meta.Kind = fields.KindCombo
		} else {
			w.meta.Kind = fields.KindList
		}
		w.meta.Multi = ff&flagMultiSelect != 0
		w.meta.Editable = ff&flagEdit != 0
		w.meta.Options = d.options(annot)
		w.meta.Value = d.choiceValue(annot)
	case "Sig":
		w.meta.Kind = fields.KindSignature
	}

	return w, true
}

// fieldDictFor returns the nearest dict up the parent chain that carries /T.
func (d *Document) fieldDictFor(annot types.Dict) types.Dict {
	dict := annot
	for i := 0; dict != nil && i < maxParentDepth; i++ {
		if _, found := dict.Find("T"); found {
			return dict
		}
		dict = d.parent(dict)
	}
	return annot
}

func (d *Document) parent(dict types.Dict) types.Dict {
	obj, found := dict.Find("Parent")
	if !found {
		return nil
	}
	p, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return nil
	}
	return p
}

// inherited resolves key on dict or any ancestor, per the AcroForm field
// attribute inheritance rules.
func (d *Document) inherited(dict types.Dict, key string) (types.Object, bool) {
	for i := 0; dict != nil && i < maxParentDepth; i++ {
		if obj, found := dict.Find(key); found {
			return obj, true
		}
		dict = d.parent(dict)
	}
	return nil, false
}

func (d *Document) inheritedString(dict types.Dict, key string) (string, bool) {
	obj, found := d.inherited(dict, key)
	if !found {
		return "", false
	}
	s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return "", false
	}
	return s, true
}

func (d *Document) inheritedName(dict types.Dict, key string) (string, bool) {
	obj, found := d.inherited(dict, key)
	if !found {
		return "", false
	}
	n, err := d.ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return "", false
	}
	return string(n), true
}

func (d *Document) inheritedInt(dict types.Dict, key string) int {
	obj, found := d.inherited(dict, key)
	if !found {
		return 0
	}
	i, err := d.ctx.DereferenceInteger(obj)
	if err != nil || i == nil {
		return 0
	}
	return int(*i)
}

func (d *Document) rectOf(annot types.Dict) fields.Rect {
	obj, found := annot.Find("Rect")
	if !found {
		return fields.Rect{}
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil || len(arr) != 4 {
		return fields.Rect{}
	}
	coords := make([]float64, 4)
	for i, c := range arr {
		if f, err := d.ctx.DereferenceNumber(c); err == nil {
			coords[i] = f
		}
	}
	return fields.Rect{LLX: coords[0], LLY: coords[1], URX: coords[2], URY: coords[3]}
}

// onState finds the widget's "on" appearance state: the first /AP /N key that
// is not Off. Widgets without appearance streams default to Yes.
func (d *Document) onState(annot types.Dict) string {
	apObj, found := annot.Find("AP")
	if !found {
		return "Yes"
	}
	ap, err := d.ctx.DereferenceDict(apObj)
	if err != nil || ap == nil {
		return "Yes"
	}
	nObj, found := ap.Find("N")
	if !found {
		return "Yes"
	}
	n, err := d.ctx.DereferenceDict(nObj)
	if err != nil || n == nil {
		return "Yes"
	}
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "Off" {
			return k
		}
	}
	return "Yes"
}

func (d *Document) widgetChecked(annot types.Dict) bool {
	as := annot.NameEntry("AS")
	return as != nil && *as != "" && *as != "Off"
}

// options reads the inherited /Opt array. Entries are plain strings or
// [export, display] pairs.
func (d *Document) options(dict types.Dict) []fields.Option {
	obj, found := d.inherited(dict, "Opt")
	if !found {
		return nil
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil
	}
	var opts []fields.Option
	for _, item := range arr {
		if s, err := d.ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
			opts = append(opts, fields.Option{Export: s, Display: s})
			continue
		}
		pair, err := d.ctx.DereferenceArray(item)
		if err != nil || len(pair) < 2 {
			continue
		}
		export, err := d.ctx.DereferenceStringOrHexLiteral(pair[0], model.V10, nil)
		if err != nil {
			continue
		}
		display, err := d.ctx.DereferenceStringOrHexLiteral(pair[1], model.V10, nil)
		if err != nil {
			display = export
		}
		opts = append(opts, fields.Option{Export: export, Display: display})
	}
	return opts
}

// choiceValue reads the current /V of a choice field as export values.
func (d *Document) choiceValue(dict types.Dict) []string {
	obj, found := d.inherited(dict, "V")
	if !found {
		return nil
	}
	if s, err := d.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, err := d.ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
			out = append(out, s)
		}
	}
	return out
}
