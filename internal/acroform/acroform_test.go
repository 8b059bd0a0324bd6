package acroform

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/testsupport"
)

func openFixture(t *testing.T) *Document {
	t.Helper()
	doc, err := OpenReader(bytes.NewReader(testsupport.BuildFormPDF()))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	return doc
}

func TestInspect(t *testing.T) {
	doc := openFixture(t)
	form, err := doc.Inspect()
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	type summary struct {
		Name string
		Kind fields.Kind
		Idx  int
	}
	var got []summary
	for _, f := range form.Fields {
		got = append(got, summary{f.Name, f.Kind, f.WidgetIndex})
	}
	want := []summary{
		{"Name", fields.KindText, 0},
		{"Agree", fields.KindCheckbox, 1},
		{"Agree", fields.KindCheckbox, 2},
		{"Color", fields.KindRadio, 0},
		{"Color", fields.KindRadio, 0},
		{"Country", fields.KindCombo, 0},
		{"Languages", fields.KindList, 0},
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("widget summary mismatch (-want +got):\n%s", diff)
	}

	country, ok := form.Lookup("Country")
	if !ok {
		t.Fatal("Country not found")
	}
	wantOpts := []fields.Option{
		{Export: "US", Display: "United States"},
		{Export: "CA", Display: "Canada"},
	}
	if diff := testsupport.CompareGolden(wantOpts, country.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if country.Multi {
		t.Fatal("Country must not be multi-select")
	}

	languages, _ := form.Lookup("Languages")
	if !languages.Multi {
		t.Fatal("Languages must be multi-select")
	}

	radios := form.Named("Color")
	if radios[0].OnState != "Red" || radios[1].OnState != "Blue" {
		t.Fatalf("radio on-states: %q, %q", radios[0].OnState, radios[1].OnState)
	}

	agree := form.Named("Agree")
	if agree[0].OnState != "On" || agree[0].Checked {
		t.Fatalf("checkbox state: on=%q checked=%v", agree[0].OnState, agree[0].Checked)
	}
}

func TestInheritedNameResolvesParentChain(t *testing.T) {
	doc := openFixture(t)
	ws, err := doc.widgets()
	if err != nil {
		t.Fatalf("widgets: %v", err)
	}

	// Radio kids carry no /FT of their own; the lookup must walk up to the
	// group dict and hand back a plain string.
	var seen int
	for _, w := range ws {
		if w.meta.Name != "Color" {
			continue
		}
		seen++
		ft, ok := doc.inheritedName(w.annot, "FT")
		if !ok || ft != "Btn" {
			t.Fatalf("inherited FT: %q ok=%v", ft, ok)
		}
	}
	if seen != 2 {
		t.Fatalf("expected 2 radio widgets, saw %d", seen)
	}
}

func TestFillAndReinspect(t *testing.T) {
	doc := openFixture(t)
	values := fields.Values{
		"Name":      "Alice",
		"Agree__1":  true,
		"Color":     "Blue",
		"Country":   "Canada",
		"Languages": []string{"English", "French"},
	}
	if err := doc.Fill(values, true); err != nil {
		t.Fatalf("fill: %v", err)
	}

	form, err := doc.Inspect()
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	name, _ := form.Lookup("Name")
	if diff := testsupport.CompareGolden([]string{"Alice"}, name.Value); diff != "" {
		t.Fatalf("text value mismatch (-want +got):\n%s", diff)
	}

	agree := form.Named("Agree")
	if !agree[0].Checked || agree[1].Checked {
		t.Fatalf("checkbox widgets: %v, %v", agree[0].Checked, agree[1].Checked)
	}

	radios := form.Named("Color")
	if radios[0].Checked || !radios[1].Checked {
		t.Fatalf("radio widgets: red=%v blue=%v", radios[0].Checked, radios[1].Checked)
	}
	if diff := testsupport.CompareGolden([]string{"Blue"}, radios[0].Value); diff != "" {
		t.Fatalf("radio group value mismatch (-want +got):\n%s", diff)
	}

	country, _ := form.Lookup("Country")
	if diff := testsupport.CompareGolden([]string{"CA"}, country.Value); diff != "" {
		t.Fatalf("combo value mismatch (-want +got):\n%s", diff)
	}

	languages, _ := form.Lookup("Languages")
	if diff := testsupport.CompareGolden([]string{"English", "French"}, languages.Value); diff != "" {
		t.Fatalf("list value mismatch (-want +got):\n%s", diff)
	}
}

func TestFillStrictUnknownNames(t *testing.T) {
	doc := openFixture(t)
	err := doc.Fill(fields.Values{"Bogus": "x"}, true)
	if err == nil {
		t.Fatal("expected an error for unknown names")
	}
	if !strings.Contains(err.Error(), "Bogus") {
		t.Fatalf("error must name the offender, got %v", err)
	}
}

func TestFillLenientIgnoresUnknownNames(t *testing.T) {
	doc := openFixture(t)
	if err := doc.Fill(fields.Values{"Bogus": "x", "Name": "Bob"}, false); err != nil {
		t.Fatalf("fill: %v", err)
	}
	form, _ := doc.Inspect()
	name, _ := form.Lookup("Name")
	if diff := testsupport.CompareGolden([]string{"Bob"}, name.Value); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFillTypeMismatchSurfacesFieldName(t *testing.T) {
	doc := openFixture(t)
	err := doc.Fill(fields.Values{"Agree__1": "yes"}, true)
	if err == nil || !strings.Contains(err.Error(), "Agree__1") {
		t.Fatalf("expected a typed error naming Agree__1, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := testsupport.WriteFixturePDF(t)
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := doc.Fill(fields.Values{"Name": "Round Trip"}, true); err != nil {
		t.Fatalf("fill: %v", err)
	}
	out := filepath.Join(t.TempDir(), "filled.pdf")
	if err := doc.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}

	reread, err := Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	form, err := reread.Inspect()
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	name, _ := form.Lookup("Name")
	if diff := testsupport.CompareGolden([]string{"Round Trip"}, name.Value); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenRemovesFormLayer(t *testing.T) {
	doc := openFixture(t)
	values := fields.Values{
		"Name":     "Alice",
		"Agree__1": true,
		"Country":  "Canada",
	}
	if err := doc.Fill(values, true); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := doc.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	out := filepath.Join(t.TempDir(), "flat.pdf")
	if err := doc.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}

	reread, err := Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reread.PageCount() != 1 {
		t.Fatalf("page count: %d", reread.PageCount())
	}
	form, err := reread.Inspect()
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(form.Fields) != 0 {
		t.Fatalf("flattened output still has %d widgets", len(form.Fields))
	}
}

func TestFillNoFormFields(t *testing.T) {
	// A merged copy keeps pages but the fixture without values is fine to
	// exercise the sentinel: strip the form first, then try to fill.
	doc := openFixture(t)
	if err := doc.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	err := doc.Fill(fields.Values{"Name": "late"}, true)
	if !errors.Is(err, ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	a := testsupport.WriteFixturePDF(t)
	b := testsupport.WriteFixturePDF(t)
	out := filepath.Join(t.TempDir(), "merged.pdf")

	if err := Merge([]string{a, b}, out); err != nil {
		t.Fatalf("merge: %v", err)
	}
	doc, err := Open(out)
	if err != nil {
		t.Fatalf("open merged: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("merged page count: %d", doc.PageCount())
	}

	if err := Merge([]string{a}, out); err == nil {
		t.Fatal("merge with one input must fail")
	}
}
