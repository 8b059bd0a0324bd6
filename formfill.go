// Package formfill fills the interactive fields of a PDF template with typed
// values and flattens the result so the values become static page content.
// The heavy lifting lives in pkg/fill, pkg/fields and pkg/prompt; this
// package exposes the one-call entry points and re-exports the types callers
// need.
package formfill

import (
	"context"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/fill"
	"github.com/goliatone/go-formfill/pkg/prompt"
)

// Values maps field names to typed values; alias exported via the root
// package for convenience.
type Values = fields.Values

// Form is the flat widget list of a document.
type Form = fields.Form

// Field models a single widget of an interactive form.
type Field = fields.Field

// Option customises a fill run.
type Option = fill.Option

// WithFlatten controls whether output is flattened (the default).
func WithFlatten(flatten bool) Option {
	return fill.WithFlatten(flatten)
}

// WithStrict controls whether unknown value names abort the run (the
// default).
func WithStrict(strict bool) Option {
	return fill.WithStrict(strict)
}

// FillFile fills the template with values and writes the result to output.
// It is the simplest entry point for callers with a script-embedded data
// set.
func FillFile(ctx context.Context, template, output string, values Values, options ...Option) error {
	return fill.New(options...).Run(ctx, fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values:       values,
	})
}

// InspectFile lists the template's widgets in page order.
func InspectFile(ctx context.Context, template string) (Form, error) {
	return fill.New().Inspect(ctx, template)
}

// FillInteractive inspects the template, runs a terminal form-entry session
// for its fields, and writes the filled result to output.
func FillInteractive(ctx context.Context, template, output string, options ...Option) error {
	gen := fill.New(options...)
	form, err := gen.Inspect(ctx, template)
	if err != nil {
		return err
	}
	values, err := prompt.NewSession().Run(ctx, form)
	if err != nil {
		return err
	}
	return gen.Run(ctx, fill.Request{
		TemplatePath: template,
		OutputPath:   output,
		Values:       values,
	})
}

// MergeFiles concatenates the input documents into output.
func MergeFiles(ctx context.Context, inputs []string, output string) error {
	return fill.New().Merge(ctx, inputs, output)
}
