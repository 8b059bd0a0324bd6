package fill_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formfill/internal/acroform"
	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/testsupport"
)

func TestRunFillsAndFlattens(t *testing.T) {
	template := testsupport.WriteFixturePDF(t)
	output := filepath.Join(t.TempDir(), "out.pdf")

	gen := fill.New()
	err := gen.Run(context.Background(), fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values: fields.Values{
			"Name":      "Alice",
			"Agree__1":  true,
			"Country":   "Canada",
			"Languages": []string{"French"},
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	doc, err := acroform.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	form, err := doc.Inspect()
	if err != nil {
		t.Fatalf("inspect output: %v", err)
	}
	if len(form.Fields) != 0 {
		t.Fatalf("flattened output still has %d widgets", len(form.Fields))
	}
}

func TestRunWithoutFlattenKeepsForm(t *testing.T) {
	template := testsupport.WriteFixturePDF(t)
	output := filepath.Join(t.TempDir(), "out.pdf")

	gen := fill.New(fill.WithFlatten(false))
	err := gen.Run(context.Background(), fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values:       fields.Values{"Name": "Alice"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	doc, err := acroform.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	form, err := doc.Inspect()
	if err != nil {
		t.Fatalf("inspect output: %v", err)
	}
	name, ok := form.Lookup("Name")
	if !ok {
		t.Fatal("form layer must survive with flattening off")
	}
	if diff := testsupport.CompareGolden([]string{"Alice"}, name.Value); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStrictRejectsUnknownNames(t *testing.T) {
	template := testsupport.WriteFixturePDF(t)
	output := filepath.Join(t.TempDir(), "out.pdf")

	err := fill.New().Run(context.Background(), fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values:       fields.Values{"Bogus": "x"},
	})
	if err == nil {
		t.Fatal("expected an error for unknown names")
	}

	if err := fill.New(fill.WithStrict(false)).Run(context.Background(), fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values:       fields.Values{"Bogus": "x"},
	}); err != nil {
		t.Fatalf("lenient run: %v", err)
	}
}

func TestRunValidatesRequest(t *testing.T) {
	gen := fill.New()
	if err := gen.Run(context.Background(), fill.Request{OutputPath: "x.pdf"}); err == nil {
		t.Fatal("missing template must fail")
	}
	if err := gen.Run(context.Background(), fill.Request{TemplatePath: "x.pdf"}); err == nil {
		t.Fatal("missing output must fail")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := fill.New().Run(ctx, fill.Request{TemplatePath: "a", OutputPath: "b"}); err == nil {
		t.Fatal("cancelled context must abort the run")
	}
}

func TestInspect(t *testing.T) {
	template := testsupport.WriteFixturePDF(t)
	form, err := fill.New().Inspect(context.Background(), template)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(form.Fields) != 7 {
		t.Fatalf("expected 7 widgets, got %d", len(form.Fields))
	}
}

func TestMerge(t *testing.T) {
	a := testsupport.WriteFixturePDF(t)
	b := testsupport.WriteFixturePDF(t)
	out := filepath.Join(t.TempDir(), "merged.pdf")

	if err := fill.New().Merge(context.Background(), []string{a, b}, out); err != nil {
		t.Fatalf("merge: %v", err)
	}
	doc, err := acroform.Open(out)
	if err != nil {
		t.Fatalf("open merged: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("merged page count: %d", doc.PageCount())
	}
}
