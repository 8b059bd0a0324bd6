// Package prompt runs a terminal form-entry session: one prompt per widget
// of a fillable document, producing the value set a fill run consumes.
package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formfill/pkg/fields"
)

// Option customises a Session.
type Option func(*Session)

// WithDriver swaps the terminal driver, mainly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		s.driver = driver
	}
}

// Session walks a form widget by widget and collects typed values.
type Session struct {
	driver PromptDriver
}

// NewSession constructs a session with the survey-backed driver by default.
func NewSession(options ...Option) *Session {
	s := &Session{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	return s
}

// Run prompts for every fillable widget in form order and returns the
// collected values. Text and choice fields prompt once per name, checkboxes
// once per widget under their "Name__N" key, radio groups once per group.
func (s *Session) Run(ctx context.Context, form fields.Form) (fields.Values, error) {
	values := fields.Values{}
	prompted := map[string]struct{}{}

	for _, f := range form.Fields {
		if !f.Fillable() {
			continue
		}
		key := f.Key()
		if f.Kind != fields.KindCheckbox {
			if _, done := prompted[key]; done {
				continue
			}
			prompted[key] = struct{}{}
		}

		var err error
		switch f.Kind {
		case fields.KindText:
			err = s.promptText(ctx, f, values)
		case fields.KindCheckbox:
			err = s.promptCheckbox(ctx, f, values)
		case fields.KindRadio:
			err = s.promptRadio(ctx, f, form, values)
		case fields.KindCombo, fields.KindList:
			err = s.promptChoice(ctx, f, values)
		}
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (s *Session) promptText(ctx context.Context, f fields.Field, values fields.Values) error {
	var current string
	if len(f.Value) > 0 {
		current = f.Value[0]
	}
	out, err := s.driver.Input(ctx, InputConfig{
		Message: f.Name,
		Default: current,
	})
	if err != nil {
		return err
	}
	values[f.Name] = out
	return nil
}

func (s *Session) promptCheckbox(ctx context.Context, f fields.Field, values fields.Values) error {
	out, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: f.Key(),
		Default: f.Checked,
	})
	if err != nil {
		return err
	}
	values[f.Key()] = out
	return nil
}

// promptRadio offers the union of the group's widget on-states as a single
// select; the remaining widgets of the group are skipped by the prompted set.
func (s *Session) promptRadio(ctx context.Context, f fields.Field, form fields.Form, values fields.Values) error {
	var exports []string
	seen := map[string]struct{}{}
	for _, w := range form.Named(f.Name) {
		if w.OnState == "" || w.OnState == "Off" {
			continue
		}
		if _, ok := seen[w.OnState]; ok {
			continue
		}
		seen[w.OnState] = struct{}{}
		exports = append(exports, w.OnState)
	}
	if len(exports) == 0 {
		return nil
	}

	labels := make([]string, len(exports))
	defaultIndex := 0
	for i, e := range exports {
		labels[i] = f.ExportToDisplay(e)
		if len(f.Value) > 0 && f.Value[0] == e {
			defaultIndex = i
		}
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      f.Name,
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(exports) {
		values[f.Name] = exports[idx]
	}
	return nil
}

func (s *Session) promptChoice(ctx context.Context, f fields.Field, values fields.Values) error {
	labels := f.DisplayOptions()

	// Choice widgets without options degrade to free text entry.
	if len(labels) == 0 {
		var current string
		if len(f.Value) > 0 {
			current = f.Value[0]
		}
		out, err := s.driver.Input(ctx, InputConfig{
			Message: f.Name,
			Default: current,
		})
		if err != nil {
			return err
		}
		values[f.Name] = out
		return nil
	}

	if f.Multi {
		var defaults []int
		for i, opt := range f.Options {
			for _, v := range f.Value {
				if opt.Export == v {
					defaults = append(defaults, i)
				}
			}
		}
		idxs, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  fmt.Sprintf("%s (multi)", f.Name),
			Options:  labels,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		selected := make([]string, 0, len(idxs))
		for _, i := range idxs {
			if i >= 0 && i < len(labels) {
				selected = append(selected, labels[i])
			}
		}
		values[f.Name] = selected
		return nil
	}

	defaultIndex := 0
	if len(f.Value) > 0 {
		for i, opt := range f.Options {
			if opt.Export == f.Value[0] {
				defaultIndex = i
			}
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      f.Name,
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(labels) {
		values[f.Name] = labels[idx]
	}
	return nil
}
