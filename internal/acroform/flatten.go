package acroform

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// overlayFontName keys the Helvetica resource the overlay streams reference.
// The name is distinctive enough not to collide with template resources.
const overlayFontName = "FFHelv"

// Flatten bakes the current field values into static page content and
// removes the interactive layer: each page gets an overlay content stream
// drawing the values, widget annotations are stripped, and the catalog's
// /AcroForm entry is deleted. Non-widget annotations survive.
func (d *Document) Flatten() error {
	ws, err := d.widgets()
	if err != nil {
		return err
	}
	byPage := make(map[int][]widget, d.ctx.PageCount)
	for _, w := range ws {
		byPage[w.page] = append(byPage[w.page], w)
	}

	var fontRef *types.IndirectRef

	for p := 1; p <= d.ctx.PageCount; p++ {
		pageDict, _, _, err := d.ctx.PageDict(p, true)
		if err != nil {
			return fmt.Errorf("acroform: page %d: %w", p, err)
		}
		if pageDict == nil {
			continue
		}

		o := newOverlay(overlayFontName)
		for _, w := range byPage[p] {
			o.drawField(w.meta)
		}

		d.stripWidgets(pageDict)

		if o.empty() {
			continue
		}
		if fontRef == nil {
			if fontRef, err = d.newHelvetica(); err != nil {
				return err
			}
		}
		if err := d.attachFont(pageDict, fontRef); err != nil {
			return err
		}
		if err := d.appendContent(pageDict, o.bytes()); err != nil {
			return err
		}
	}

	if root, err := d.ctx.Catalog(); err == nil {
		root.Delete("AcroForm")
	}
	return nil
}

// stripWidgets drops widget annotations from a page, keeping links, notes
// and other annotation types in place.
func (d *Document) stripWidgets(pageDict types.Dict) {
	obj, found := pageDict.Find("Annots")
	if !found {
		return
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil || arr == nil {
		return
	}
	var kept types.Array
	for _, ref := range arr {
		annot, err := d.ctx.DereferenceDict(ref)
		if err != nil || annot == nil {
			continue
		}
		if sub := annot.NameEntry("Subtype"); sub != nil && *sub == "Widget" {
			continue
		}
		kept = append(kept, ref)
	}
	if len(kept) == 0 {
		pageDict.Delete("Annots")
		return
	}
	pageDict.Update("Annots", kept)
}

func (d *Document) newHelvetica() (*types.IndirectRef, error) {
	font := types.Dict(map[string]types.Object{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	})
	ref, err := d.ctx.IndRefForNewObject(font)
	if err != nil {
		return nil, fmt.Errorf("acroform: register overlay font: %w", err)
	}
	return ref, nil
}

// attachFont makes the overlay font reachable from the page's resources.
func (d *Document) attachFont(pageDict types.Dict, fontRef *types.IndirectRef) error {
	var res types.Dict
	if obj, found := pageDict.Find("Resources"); found {
		rd, err := d.ctx.DereferenceDict(obj)
		if err != nil {
			return fmt.Errorf("acroform: page resources: %w", err)
		}
		res = rd
	}
	if res == nil {
		res = types.Dict(map[string]types.Object{})
		pageDict.Update("Resources", res)
	}

	var fonts types.Dict
	if obj, found := res.Find("Font"); found {
		fd, err := d.ctx.DereferenceDict(obj)
		if err != nil {
			return fmt.Errorf("acroform: page font resources: %w", err)
		}
		fonts = fd
	}
	if fonts == nil {
		fonts = types.Dict(map[string]types.Object{})
		res.Update("Font", fonts)
	}

	fonts.Update(overlayFontName, *fontRef)
	return nil
}

// appendContent sandwiches the page's existing content between a graphics
// state save and the overlay stream so the overlay always draws in a clean
// state on top.
func (d *Document) appendContent(pageDict types.Dict, ops []byte) error {
	pre, err := d.streamRef([]byte("q\n"))
	if err != nil {
		return err
	}
	post, err := d.streamRef(append([]byte("Q\n"), ops...))
	if err != nil {
		return err
	}

	var existing types.Array
	if obj, found := pageDict.Find("Contents"); found {
		switch o := obj.(type) {
		case types.Array:
			existing = o
		default:
			existing = types.Array{obj}
		}
	}

	contents := make(types.Array, 0, len(existing)+2)
	contents = append(contents, *pre)
	contents = append(contents, existing...)
	contents = append(contents, *post)
	pageDict.Update("Contents", contents)
	return nil
}

func (d *Document) streamRef(b []byte) (*types.IndirectRef, error) {
	sd, err := d.ctx.NewStreamDictForBuf(b)
	if err != nil {
		return nil, fmt.Errorf("acroform: new content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("acroform: encode content stream: %w", err)
	}
	ref, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, fmt.Errorf("acroform: register content stream: %w", err)
	}
	return ref, nil
}
