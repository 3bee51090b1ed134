package flow

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

var (
	ErrInvalidFlowDefinition = errors.New("invalid flow definition")
	ErrRequiredFieldMissing  = errors.New("answer is required")
	ErrSkipTargetOutOfRange  = errors.New("skip target is out of range")
	ErrInvalidAnswer         = errors.New("invalid answer")
	ErrQuestionMismatch      = errors.New("answer is not for the current question")
	ErrAtFirstQuestion       = errors.New("already at the first question")
	ErrFlowComplete          = errors.New("flow is complete")
	ErrFlowNotStarted        = errors.New("flow is not started")
	ErrFlowStarted           = errors.New("flow is already started")
	ErrIsNotComplete         = errors.New("flow is not complete")
	ErrQuestionnaireMismatch = errors.New("questionnaire does not match flow")
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

// Flow is the state of one run of a questionnaire. It is owned by a single caller at a time
// and is safe to serialize; question rules are re-attached with Bind after loading.
type Flow struct {
	StartedAt       time.Time         `json:"started_at"`
	Answers         map[string]Value  `json:"answers"`
	Flags           map[string]bool   `json:"flags"`
	Reasons         map[string]string `json:"reasons,omitempty"`
	ID              string            `json:"id"`
	Status          Status            `json:"status"`
	QuestionnaireID string            `json:"questionnaire_id,omitempty"`
	questions       []Question
	Position        int `json:"position"`
}

// Result is the outcome of a completed flow.
type Result struct {
	Answers  map[string]Value
	Reasons  []string
	Eligible bool
}

func New(id string) *Flow {
	return &Flow{
		ID:     id,
		Status: StatusIdle,
	}
}

// Start validates the questionnaire and begins the flow at its first question.
func (f *Flow) Start(qn *Questionnaire) error {
	if f.Status != StatusIdle {
		return ErrFlowStarted
	}

	if err := qn.Validate(); err != nil {
		return err
	}

	f.Status = StatusActive
	f.QuestionnaireID = qn.ID
	f.questions = qn.Questions
	f.Position = 0
	f.Answers = make(map[string]Value)
	f.Flags = make(map[string]bool)
	f.Reasons = make(map[string]string)
	f.StartedAt = time.Now()

	return nil
}

// Bind re-attaches the questions of a started flow, typically after it was loaded from storage.
func (f *Flow) Bind(qn *Questionnaire) error {
	if f.Status == StatusIdle {
		return ErrFlowNotStarted
	}

	if qn == nil || qn.ID != f.QuestionnaireID || f.Position > len(qn.Questions) {
		return ErrQuestionnaireMismatch
	}

	if err := qn.Validate(); err != nil {
		return err
	}

	f.questions = qn.Questions

	if f.Answers == nil {
		f.Answers = make(map[string]Value)
	}

	if f.Flags == nil {
		f.Flags = make(map[string]bool)
	}

	if f.Reasons == nil {
		f.Reasons = make(map[string]string)
	}

	return nil
}

// Len returns the number of questions in the bound questionnaire.
func (f *Flow) Len() int {
	return len(f.questions)
}

// Current returns the question awaiting an answer. ErrFlowComplete marks the terminal state.
func (f *Flow) Current() (*Question, error) {
	switch f.Status {
	case StatusIdle:
		return nil, ErrFlowNotStarted
	case StatusComplete:
		return nil, ErrFlowComplete
	}

	if f.Position < 0 || f.Position >= len(f.questions) {
		return nil, ErrQuestionnaireMismatch
	}

	return &f.questions[f.Position], nil
}

// Submit records the answer to the current question and moves the flow forward.
// A disqualifying answer is recorded in Flags but does not stop the flow.
// An empty answer to an optional question is stored as the undefined Value.
// On error the flow is left unchanged.
func (f *Flow) Submit(questionID string, v Value) error {
	q, err := f.Current()
	if err != nil {
		return err
	}

	if q.ID != questionID {
		return fmt.Errorf("%w: expected %q, got %q", ErrQuestionMismatch, q.ID, questionID)
	}

	empty := v.IsEmpty()

	if empty && q.Required {
		return fmt.Errorf("%w: %s", ErrRequiredFieldMissing, q.ID)
	}

	if empty {
		v = Value{}
	} else {
		if err := q.check(v); err != nil {
			return err
		}

		v = v.normalize(q)

		if q.Validate != nil {
			if err := q.Validate(v); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
			}
		}
	}

	next := f.Position + 1

	if q.Skip != nil {
		target := q.Skip(v)
		if target < 0 || target >= len(f.questions) {
			return fmt.Errorf("%w: question %q jumps to %d of %d", ErrSkipTargetOutOfRange, q.ID, target, len(f.questions))
		}

		next = target
	}

	f.Answers[q.ID] = v

	switch {
	case q.Eligibility == nil:
	case empty:
		delete(f.Flags, q.ID)
		delete(f.Reasons, q.ID)
	default:
		ok, reason := q.Eligibility(v)
		f.Flags[q.ID] = ok

		if ok {
			delete(f.Reasons, q.ID)
		} else {
			f.Reasons[q.ID] = reason
		}
	}

	f.Position = next

	if f.Position >= len(f.questions) {
		f.Status = StatusComplete
	}

	return nil
}

// Back moves exactly one question back in sequence order, regardless of how the current
// question was reached.
func (f *Flow) Back() error {
	switch f.Status {
	case StatusIdle:
		return ErrFlowNotStarted
	case StatusComplete:
		return ErrFlowComplete
	}

	if f.Position <= 0 {
		return ErrAtFirstQuestion
	}

	f.Position--

	return nil
}

// IsEligible is the AND of all recorded eligibility flags, true when none were recorded.
func (f *Flow) IsEligible() bool {
	for _, ok := range f.Flags {
		if !ok {
			return false
		}
	}

	return true
}

// Results returns the answers and the verdict of a completed flow.
func (f *Flow) Results() (*Result, error) {
	if f.Status != StatusComplete {
		return nil, ErrIsNotComplete
	}

	return &Result{
		Answers:  maps.Clone(f.Answers),
		Eligible: f.IsEligible(),
		Reasons:  f.FailedReasons(),
	}, nil
}

// FailedReasons lists the reasons of currently failing questions in questionnaire order.
func (f *Flow) FailedReasons() []string {
	var reasons []string

	for i := range f.questions {
		id := f.questions[i].ID
		if ok, seen := f.Flags[id]; !seen || ok {
			continue
		}

		reason := f.Reasons[id]
		if reason == "" {
			reason = fmt.Sprintf("answer to %q does not meet eligibility criteria", f.questions[i].Text)
		}

		reasons = append(reasons, reason)
	}

	return reasons
}
