package acroform

import "github.com/goliatone/go-formfill/pkg/fields"

// Inspect lists every addressable widget of the document in page order.
func (d *Document) Inspect() (fields.Form, error) {
	ws, err := d.widgets()
	if err != nil {
		return fields.Form{}, err
	}
	form := fields.Form{Fields: make([]fields.Field, 0, len(ws))}
	for _, w := range ws {
		form.Fields = append(form.Fields, w.meta)
	}
	return form, nil
}
