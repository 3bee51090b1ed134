package flow

import (
	"fmt"
	"math"
	"slices"
)

type Kind string

const (
	KindText         Kind = "text"
	KindNumber       Kind = "number"
	KindSingleChoice Kind = "single_choice"
	KindMultiChoice  Kind = "multi_choice"
	KindLongText     Kind = "long_text"
)

// IsChoice reports whether answers of this kind are picked from a list of options.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

func (k Kind) valid() bool {
	switch k {
	case KindText, KindNumber, KindSingleChoice, KindMultiChoice, KindLongText:
		return true
	default:
		return false
	}
}

// EligibilityRule reports whether an answer keeps the patient eligible. When it does not,
// reason explains why and is shown to the patient.
type EligibilityRule func(v Value) (ok bool, reason string)

// SkipRule returns the index of the question to continue with after the given answer.
type SkipRule func(v Value) int

// ValidateRule rejects malformed input. A returned error blocks the answer from being stored.
type ValidateRule func(v Value) error

// Question is a single prompt of a questionnaire. Rules must be pure functions of the answer.
type Question struct {
	Eligibility EligibilityRule `json:"-"`
	Skip        SkipRule        `json:"-"`
	Validate    ValidateRule    `json:"-"`
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Kind        Kind            `json:"kind"`
	Options     []string        `json:"options,omitempty"`
	Required    bool            `json:"required"`
}

// Questionnaire is an ordered set of questions identified by ID.
type Questionnaire struct {
	ID        string
	Questions []Question
}

// Validate checks the questionnaire definition: it must be non-empty, question ids must be
// unique and non-empty, kinds must be known and options must be present exactly for choice kinds.
func (qn *Questionnaire) Validate() error {
	if qn == nil || len(qn.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidFlowDefinition)
	}

	seen := make(map[string]struct{}, len(qn.Questions))

	for i := range qn.Questions {
		q := &qn.Questions[i]

		if q.ID == "" {
			return fmt.Errorf("%w: question %d has empty id", ErrInvalidFlowDefinition, i)
		}

		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidFlowDefinition, q.ID)
		}

		seen[q.ID] = struct{}{}

		if !q.Kind.valid() {
			return fmt.Errorf("%w: question %q has unknown kind %q", ErrInvalidFlowDefinition, q.ID, q.Kind)
		}

		switch {
		case q.Kind.IsChoice() && len(q.Options) == 0:
			return fmt.Errorf("%w: choice question %q has no options", ErrInvalidFlowDefinition, q.ID)
		case !q.Kind.IsChoice() && len(q.Options) > 0:
			return fmt.Errorf("%w: question %q of kind %q must not have options", ErrInvalidFlowDefinition, q.ID, q.Kind)
		}

		for j, opt := range q.Options {
			if opt == "" || slices.Contains(q.Options[:j], opt) {
				return fmt.Errorf("%w: question %q has empty or duplicate option %q", ErrInvalidFlowDefinition, q.ID, opt)
			}
		}
	}

	return nil
}

// check verifies that v is an acceptable answer to q, ignoring emptiness.
func (q *Question) check(v Value) error {
	if v.Kind != q.Kind {
		return fmt.Errorf("%w: expected %s answer, got %q", ErrInvalidAnswer, q.Kind, v.Kind)
	}

	switch q.Kind {
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidAnswer, formatNumber(v.Number))
		}
	case KindSingleChoice:
		if v.Text != "" && !slices.Contains(q.Options, v.Text) {
			return fmt.Errorf("%w: %q is not one of the options", ErrInvalidAnswer, v.Text)
		}
	case KindMultiChoice:
		for _, c := range v.Choices {
			if !slices.Contains(q.Options, c) {
				return fmt.Errorf("%w: %q is not one of the options", ErrInvalidAnswer, c)
			}
		}
	}

	return nil
}
