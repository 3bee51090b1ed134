package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ksysoev/intakebot/pkg/core/flow"
)

// rangeRule bounds a numeric answer. Contains lists options or substrings that disqualify
// (for eligibility) or are rejected (for validation) when present in the answer.
type rangeRule struct {
	Min           *float64 `yaml:"min"`
	Max           *float64 `yaml:"max"`
	Reason        string   `yaml:"reason"`
	DisqualifyAny []string `yaml:"disqualify_any"`
}

type skipBranch struct {
	Equals   string `yaml:"equals"`
	Contains string `yaml:"contains"`
	To       string `yaml:"to"`
}

func (r *rangeRule) empty() bool {
	return r.Min == nil && r.Max == nil && len(r.DisqualifyAny) == 0
}

// violation returns a non-empty description when v breaks the rule.
func (r *rangeRule) violation(v flow.Value) string {
	if v.Kind == flow.KindNumber {
		if r.Min != nil && v.Number < *r.Min {
			return fmt.Sprintf("must be at least %g", *r.Min)
		}

		if r.Max != nil && v.Number > *r.Max {
			return fmt.Sprintf("must be at most %g", *r.Max)
		}
	}

	for _, d := range r.DisqualifyAny {
		if matches(v, d) {
			return fmt.Sprintf("%q is not allowed", d)
		}
	}

	return ""
}

func (r *rangeRule) eligibility() flow.EligibilityRule {
	return func(v flow.Value) (bool, string) {
		if r.violation(v) == "" {
			return true, ""
		}

		return false, r.Reason
	}
}

func (r *rangeRule) validation() flow.ValidateRule {
	return func(v flow.Value) error {
		msg := r.violation(v)
		if msg == "" {
			return nil
		}

		if r.Reason != "" {
			return errors.New(r.Reason)
		}

		return errors.New(msg)
	}
}

// skipRule compiles branches into a flow.SkipRule. The first matching branch wins;
// otherwise the flow advances to the next question.
func skipRule(branches []skipBranch, index map[string]int, self int) (flow.SkipRule, error) {
	type target struct {
		branch skipBranch
		to     int
	}

	targets := make([]target, 0, len(branches))

	for _, b := range branches {
		to, ok := index[b.To]
		if !ok {
			return nil, fmt.Errorf("unknown skip target %q", b.To)
		}

		if to <= self {
			return nil, fmt.Errorf("skip target %q must come after the question", b.To)
		}

		if b.Equals == "" && b.Contains == "" {
			return nil, fmt.Errorf("skip branch to %q has no condition", b.To)
		}

		targets = append(targets, target{branch: b, to: to})
	}

	return func(v flow.Value) int {
		for _, t := range targets {
			if t.branch.Equals != "" && v.String() == t.branch.Equals {
				return t.to
			}

			if t.branch.Contains != "" && matches(v, t.branch.Contains) {
				return t.to
			}
		}

		return self + 1
	}, nil
}

// matches reports whether an answer selected or mentions s. Choice answers match a whole
// option or an option containing s, text answers match case-insensitively.
func matches(v flow.Value, s string) bool {
	switch v.Kind {
	case flow.KindMultiChoice:
		for _, c := range v.Choices {
			if strings.Contains(c, s) {
				return true
			}
		}

		return false
	case flow.KindSingleChoice:
		return strings.Contains(v.Text, s)
	case flow.KindNumber:
		return v.String() == s
	default:
		return strings.Contains(strings.ToLower(v.Text), strings.ToLower(s))
	}
}
