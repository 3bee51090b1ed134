package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/ksysoev/intakebot/pkg/core/flow"
)

const (
	BackAnswer = "⬅️ Back"
	SkipAnswer = "Skip"

	questionHeader          = "Question %d of %d"
	requiredMessage         = "⚠️ This question requires an answer."
	firstQuestionMessage    = "You are already at the first question."
	eligibleMessage         = "✅ You are eligible for %s.\n\nYour consultation is valid for %d days. Complete your order here:\n%s"
	ineligibleMessage       = "❌ Unfortunately you are not eligible for this treatment."
	alreadyConsultedMessage = "✅ You already have a valid consultation for %s until %s.\n\nNo need to answer the questionnaire again."
	resumeMessage           = "Welcome back! Let's continue where you left off."
	multiChoiceHint         = "Pick an option or send several separated by commas."
	numberHint              = "Send a number."
	optionalQuestionHint    = "This question is optional, send Skip to leave it blank."
	dateLayout              = "2006-01-02"
)

// newPrompt describes the current question of an active flow.
func newPrompt(f *flow.Flow, q *flow.Question) *Prompt {
	return &Prompt{
		ID:       q.ID,
		Text:     q.Text,
		Kind:     q.Kind,
		Options:  q.Options,
		Number:   f.Position + 1,
		Total:    f.Len(),
		Required: q.Required,
	}
}

// promptResponse renders the current question of f, prefixed with an optional notice.
func promptResponse(f *flow.Flow, q *flow.Question, notice string) *Response {
	var sb strings.Builder

	if notice != "" {
		sb.WriteString(notice)
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, questionHeader, f.Position+1, f.Len())
	sb.WriteString("\n\n")
	sb.WriteString(q.Text)

	switch q.Kind {
	case flow.KindMultiChoice:
		sb.WriteString("\n\n")
		sb.WriteString(multiChoiceHint)
	case flow.KindNumber:
		sb.WriteString("\n\n")
		sb.WriteString(numberHint)
	}

	if !q.Required {
		sb.WriteString("\n")
		sb.WriteString(optionalQuestionHint)
	}

	answers := make([]string, 0, len(q.Options)+2)
	answers = append(answers, q.Options...)

	if !q.Required {
		answers = append(answers, SkipAnswer)
	}

	if f.Position > 0 {
		answers = append(answers, BackAnswer)
	}

	return &Response{
		Message: sb.String(),
		Prompt:  newPrompt(f, q),
		Answers: answers,
	}
}

func ineligibleResponse(reasons []string) *Response {
	var sb strings.Builder

	sb.WriteString(ineligibleMessage)

	for _, r := range reasons {
		sb.WriteString("\n• ")
		sb.WriteString(r)
	}

	return &Response{
		Message: sb.String(),
		Reasons: reasons,
		Done:    true,
	}
}

func eligibleResponse(product string, validity time.Duration, url string) *Response {
	return &Response{
		Message:     fmt.Sprintf(eligibleMessage, product, int(validity.Hours()/24), url),
		CheckoutURL: url,
		Done:        true,
		Eligible:    true,
	}
}

// answerProblem turns a rejected answer into a message for the patient.
func answerProblem(err error) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, flow.ErrInvalidAnswer.Error()+": "); ok {
		msg = after
	}

	return "⚠️ " + msg
}
