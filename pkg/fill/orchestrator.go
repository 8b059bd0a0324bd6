// Package fill coordinates the full pipeline from template to baked output:
// open, apply values, flatten, save. It is the programmatic entry point the
// root package re-exports.
package fill

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formfill/internal/acroform"
	"github.com/goliatone/go-formfill/pkg/fields"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithFlatten controls whether filled output is flattened into static page
// content. Flattening is on by default; disabling it keeps the form
// interactive with NeedAppearances set.
func WithFlatten(flatten bool) Option {
	return func(o *Orchestrator) {
		o.flatten = flatten
	}
}

// WithStrict controls whether value names that address no field abort the
// run. Strict is the default; lenient runs silently ignore them.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// Orchestrator drives a single fill-and-flatten run. The zero configuration
// flattens and rejects unknown value names, which matches what a one-shot
// form filler wants.
type Orchestrator struct {
	flatten bool
	strict  bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		flatten: true,
		strict:  true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Request describes one fill run.
type Request struct {
	// TemplatePath locates the fillable PDF template.
	TemplatePath string

	// OutputPath receives the filled document.
	OutputPath string

	// Values maps field names to typed values. See fields.Values for the
	// accepted shapes per field kind.
	Values fields.Values
}

// Run executes the pipeline and surfaces the first error it hits.
func (o *Orchestrator) Run(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.TemplatePath == "" {
		return errors.New("fill: template path is required")
	}
	if req.OutputPath == "" {
		return errors.New("fill: output path is required")
	}

	doc, err := acroform.Open(req.TemplatePath)
	if err != nil {
		return fmt.Errorf("fill: open template: %w", err)
	}
	if err := doc.Fill(req.Values, o.strict); err != nil {
		return fmt.Errorf("fill: apply values: %w", err)
	}
	if o.flatten {
		if err := doc.Flatten(); err != nil {
			return fmt.Errorf("fill: flatten: %w", err)
		}
	}
	if err := doc.Save(req.OutputPath); err != nil {
		return fmt.Errorf("fill: save output: %w", err)
	}
	return nil
}

// Inspect lists the template's fillable widgets in page order.
func (o *Orchestrator) Inspect(ctx context.Context, path string) (fields.Form, error) {
	if err := ctx.Err(); err != nil {
		return fields.Form{}, err
	}
	doc, err := acroform.Open(path)
	if err != nil {
		return fields.Form{}, fmt.Errorf("fill: open template: %w", err)
	}
	form, err := doc.Inspect()
	if err != nil {
		return fields.Form{}, fmt.Errorf("fill: inspect: %w", err)
	}
	return form, nil
}

// Merge concatenates the input documents into output.
func (o *Orchestrator) Merge(ctx context.Context, inputs []string, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if output == "" {
		return errors.New("fill: merge output path is required")
	}
	return acroform.Merge(inputs, output)
}
