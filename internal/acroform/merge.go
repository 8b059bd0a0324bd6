package acroform

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merge concatenates the input documents into a single output file.
func Merge(inputs []string, output string) error {
	if len(inputs) < 2 {
		return errors.New("acroform: merge needs at least two inputs")
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.MergeCreateFile(inputs, output, false, conf); err != nil {
		return fmt.Errorf("acroform: merge: %w", err)
	}
	return nil
}
