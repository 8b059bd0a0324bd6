package acroform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"

	"github.com/goliatone/go-formfill/pkg/fields"
)

// ErrNoForm is returned when values are supplied for a document that carries
// no interactive form widgets.
var ErrNoForm = errors.New("acroform: document has no form fields")

// Fill writes the supplied values into the document's field dictionaries.
// Text fields get a /V text string, button widgets an /AS appearance state
// with the group /V mirroring it, choice fields a /V string or array of
// export values. With strict set, value names that address no widget abort
// the run.
func (d *Document) Fill(values fields.Values, strict bool) error {
	ws, err := d.widgets()
	if err != nil {
		return err
	}
	if len(ws) == 0 && len(values) > 0 {
		return ErrNoForm
	}
	if strict {
		form := fields.Form{Fields: make([]fields.Field, 0, len(ws))}
		for _, w := range ws {
			form.Fields = append(form.Fields, w.meta)
		}
		if unknown := values.UnknownNames(form); len(unknown) > 0 {
			return fmt.Errorf("acroform: values address unknown fields: %s", strings.Join(unknown, ", "))
		}
	}

	for _, w := range ws {
		if !w.meta.Fillable() {
			continue
		}
		if err := d.fillWidget(w, values); err != nil {
			return err
		}
	}

	d.setNeedAppearances()
	return nil
}

func (d *Document) fillWidget(w widget, values fields.Values) error {
	switch w.meta.Kind {
	case fields.KindText:
		s, ok, err := values.TextFor(w.meta)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		w.field.Update("V", textString(s))

	case fields.KindCheckbox:
		checked, ok, err := values.CheckboxFor(w.meta)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		state := types.Name("Off")
		if checked {
			state = types.Name(w.meta.OnState)
		}
		w.annot.Update("AS", state)
		w.field.Update("V", state)

	case fields.KindRadio:
		export, ok, err := values.RadioFor(w.meta)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		w.field.Update("V", types.Name(export))
		if w.meta.OnState == export {
			w.annot.Update("AS", types.Name(export))
		} else {
			w.annot.Update("AS", types.Name("Off"))
		}

	case fields.KindCombo, fields.KindList:
		exports, ok, err := values.ChoiceFor(w.meta)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if w.meta.Multi {
			arr := make(types.Array, len(exports))
			for i, e := range exports {
				arr[i] = textString(e)
			}
			w.field.Update("V", arr)
		} else if len(exports) > 0 {
			w.field.Update("V", textString(exports[0]))
		}
	}
	return nil
}

// textString encodes a PDF text string as UTF-16BE with BOM, carried as a hex
// literal so no escaping rules apply.
func textString(s string) types.Object {
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return types.StringLiteral(s)
	}
	return types.NewHexLiteral(b)
}

// setNeedAppearances asks viewers to regenerate field appearances, which
// keeps non-flattened output readable in viewers that honor it.
func (d *Document) setNeedAppearances() {
	root, err := d.ctx.Catalog()
	if err != nil {
		return
	}
	obj, found := root.Find("AcroForm")
	if !found {
		return
	}
	acro, err := d.ctx.DereferenceDict(obj)
	if err != nil || acro == nil {
		return
	}
	acro.Update("NeedAppearances", types.Boolean(true))
}
