package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	formfill "github.com/goliatone/go-formfill"
	"github.com/goliatone/go-formfill/pkg/fields"
)

type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var assignments setFlags
	template := flag.String("template", "", "fillable PDF template path")
	output := flag.String("output", "", "output PDF path")
	valuesPath := flag.String("values", "", "YAML or JSON values file")
	interactive := flag.Bool("interactive", false, "prompt for each field in the terminal")
	list := flag.Bool("list", false, "print the template's fields as JSON and exit")
	flatten := flag.Bool("flatten", true, "bake values into page content and strip the form layer")
	strict := flag.Bool("strict", true, "fail on value names that match no field")
	merge := flag.String("merge", "", "comma-separated PDFs to concatenate into -output")
	flag.Var(&assignments, "set", "field assignment name=value (repeatable)")
	flag.Parse()

	ctx := context.Background()

	if *merge != "" {
		inputs := splitList(*merge)
		if err := formfill.MergeFiles(ctx, inputs, *output); err != nil {
			log.Fatalf("merge: %v", err)
		}
		fmt.Printf("Merged %d documents into %s\n", len(inputs), *output)
		return
	}

	if *template == "" {
		log.Fatal("a -template is required")
	}

	if *list {
		form, err := formfill.InspectFile(ctx, *template)
		if err != nil {
			log.Fatalf("inspect: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(form); err != nil {
			log.Fatalf("encode fields: %v", err)
		}
		return
	}

	if *output == "" {
		log.Fatal("an -output is required")
	}

	options := []formfill.Option{
		formfill.WithFlatten(*flatten),
		formfill.WithStrict(*strict),
	}

	if *interactive {
		if err := formfill.FillInteractive(ctx, *template, *output, options...); err != nil {
			log.Fatalf("fill: %v", err)
		}
		fmt.Printf("Saved %s\n", *output)
		return
	}

	values, err := collectValues(*valuesPath, assignments)
	if err != nil {
		log.Fatalf("values: %v", err)
	}
	if len(values) == 0 {
		log.Fatal("no values supplied; use -values, -set or -interactive")
	}

	if err := formfill.FillFile(ctx, *template, *output, values, options...); err != nil {
		log.Fatalf("fill: %v", err)
	}
	fmt.Printf("Saved %s\n", *output)
}

// collectValues merges a values file with -set assignments; assignments win.
func collectValues(path string, assignments setFlags) (fields.Values, error) {
	values := fields.Values{}
	if path != "" {
		loaded, err := fields.LoadValuesFile(path)
		if err != nil {
			return nil, err
		}
		values = loaded
	}
	for _, a := range assignments {
		name, value, err := fields.ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
