package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// noneAnswers are inputs that explicitly select nothing for an optional multi choice question.
var noneAnswers = []string{"none", "skip", "-"}

// ParseValue converts raw text typed or tapped by a user into a typed answer for q.
// Option matching is case-insensitive; multi choice answers are separated by commas.
// Blank input yields the undefined value so required checks stay with Submit.
func ParseValue(q *Question, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{}, nil
	}

	switch q.Kind {
	case KindText:
		return TextValue(raw), nil
	case KindLongText:
		return LongTextValue(raw), nil
	case KindNumber:
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAnswer, raw)
		}

		return NumberValue(n), nil
	case KindSingleChoice:
		opt, ok := matchOption(q.Options, raw)
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is not one of the options", ErrInvalidAnswer, raw)
		}

		return ChoiceValue(opt), nil
	case KindMultiChoice:
		if opt, ok := matchOption(q.Options, raw); ok {
			return ChoicesValue(opt), nil
		}

		if isNone(raw) {
			return ChoicesValue(), nil
		}

		parts := strings.Split(raw, ",")
		choices := make([]string, 0, len(parts))

		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}

			opt, ok := matchOption(q.Options, p)
			if !ok {
				return Value{}, fmt.Errorf("%w: %q is not one of the options", ErrInvalidAnswer, p)
			}

			choices = append(choices, opt)
		}

		return ChoicesValue(choices...), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown question kind %q", ErrInvalidAnswer, q.Kind)
	}
}

func matchOption(options []string, s string) (string, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt, s) {
			return opt, true
		}
	}

	return "", false
}

func isNone(s string) bool {
	for _, n := range noneAnswers {
		if strings.EqualFold(n, s) {
			return true
		}
	}

	return false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
