package flow

import (
	"slices"
	"strings"
)

// Value is an answer to a single question. Exactly one payload is meaningful, selected by Kind:
// Text for text, long text and single choice questions, Number for numeric questions and
// Choices for multi choice questions. The zero Value represents an undefined answer.
type Value struct {
	Kind    Kind     `json:"kind,omitempty"`
	Text    string   `json:"text,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Number  float64  `json:"number,omitempty"`
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func LongTextValue(s string) Value {
	return Value{Kind: KindLongText, Text: s}
}

func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

func ChoiceValue(option string) Value {
	return Value{Kind: KindSingleChoice, Text: option}
}

// ChoicesValue builds a multi choice answer. An empty argument list is a valid, empty selection.
func ChoicesValue(options ...string) Value {
	return Value{Kind: KindMultiChoice, Choices: options}
}

// IsEmpty reports whether the value counts as "not answered" for required questions:
// undefined, an empty string or an empty selection.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case "":
		return true
	case KindNumber:
		return false
	case KindMultiChoice:
		return len(v.Choices) == 0
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// Contains reports whether the answer selected the given option. For single choice and text
// answers it compares the text.
func (v Value) Contains(option string) bool {
	if v.Kind == KindMultiChoice {
		return slices.Contains(v.Choices, option)
	}

	return v.Text == option
}

// String renders the value for display and for text based rules.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Number)
	case KindMultiChoice:
		return strings.Join(v.Choices, ", ")
	default:
		return v.Text
	}
}

// normalize returns the canonical form of v for question q: multi choice selections are
// de-duplicated and ordered as the question options.
func (v Value) normalize(q *Question) Value {
	if v.Kind != KindMultiChoice || len(v.Choices) == 0 {
		return v
	}

	choices := make([]string, 0, len(v.Choices))

	for _, opt := range q.Options {
		if slices.Contains(v.Choices, opt) {
			choices = append(choices, opt)
		}
	}

	return Value{Kind: KindMultiChoice, Choices: choices}
}
