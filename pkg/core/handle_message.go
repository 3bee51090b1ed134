package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ksysoev/intakebot/pkg/core/flow"
)

var intakeNamespace = uuid.MustParse("6f1c2a9e-5d1b-4c3e-9a57-2b8f0e4d7c11")

// HandleMessage processes a free-text answer of the user to the current question.
// Answers the patient can correct produce a response repeating the question instead of an error.
func (s *Service) HandleMessage(ctx context.Context, userID, text string) (*Response, error) {
	f, err := s.loadFlow(ctx, userID)
	if err != nil {
		return nil, err
	}

	if f.Status == flow.StatusComplete {
		return s.complete(ctx, f)
	}

	q, err := f.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current question: %w", err)
	}

	text = strings.TrimSpace(text)

	if text == BackAnswer {
		resp, err := s.back(ctx, f)
		if errors.Is(err, flow.ErrAtFirstQuestion) {
			return promptResponse(f, q, firstQuestionMessage), nil
		}

		return resp, err
	}

	var v flow.Value

	if !strings.EqualFold(text, SkipAnswer) || q.Required {
		v, err = flow.ParseValue(q, text)
		if err != nil {
			return promptResponse(f, q, answerProblem(err)), nil
		}
	}

	resp, err := s.submit(ctx, f, q.ID, v)

	switch {
	case errors.Is(err, flow.ErrRequiredFieldMissing):
		return promptResponse(f, q, requiredMessage), nil
	case errors.Is(err, flow.ErrInvalidAnswer):
		return promptResponse(f, q, answerProblem(err)), nil
	case err != nil:
		return nil, err
	}

	return resp, nil
}

// SubmitAnswer records a typed answer to the given question of the user's flow.
// Unlike HandleMessage it reports rejected answers as errors.
func (s *Service) SubmitAnswer(ctx context.Context, userID, questionID string, v flow.Value) (*Response, error) {
	f, err := s.loadFlow(ctx, userID)
	if err != nil {
		return nil, err
	}

	if f.Status == flow.StatusComplete {
		return s.complete(ctx, f)
	}

	return s.submit(ctx, f, questionID, v)
}

// CurrentQuestion returns the question the user has to answer next.
func (s *Service) CurrentQuestion(ctx context.Context, userID string) (*Response, error) {
	f, err := s.loadFlow(ctx, userID)
	if err != nil {
		return nil, err
	}

	if f.Status == flow.StatusComplete {
		return s.complete(ctx, f)
	}

	q, err := f.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current question: %w", err)
	}

	return promptResponse(f, q, ""), nil
}

// GoBack returns the user to the previous question in questionnaire order.
func (s *Service) GoBack(ctx context.Context, userID string) (*Response, error) {
	f, err := s.loadFlow(ctx, userID)
	if err != nil {
		return nil, err
	}

	if f.Status == flow.StatusComplete {
		return s.complete(ctx, f)
	}

	return s.back(ctx, f)
}

func (s *Service) back(ctx context.Context, f *flow.Flow) (*Response, error) {
	if err := f.Back(); err != nil {
		return nil, fmt.Errorf("failed to go back: %w", err)
	}

	if err := s.repo.SaveFlow(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	q, err := f.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current question: %w", err)
	}

	return promptResponse(f, q, ""), nil
}

// submit applies the answer and persists the outcome. Rejected answers leave the stored flow untouched.
func (s *Service) submit(ctx context.Context, f *flow.Flow, questionID string, v flow.Value) (*Response, error) {
	if err := f.Submit(questionID, v); err != nil {
		if errors.Is(err, flow.ErrSkipTargetOutOfRange) {
			slog.ErrorContext(ctx, "Questionnaire has a broken skip rule",
				slog.String("questionnaire", f.QuestionnaireID),
				slog.Any("error", err),
			)
		}

		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	if s.early && !f.IsEligible() {
		slog.InfoContext(ctx, "Consultation ended early, patient is not eligible",
			slog.String("questionnaire", f.QuestionnaireID),
		)

		if err := s.repo.DeleteFlow(ctx, f.ID); err != nil {
			return nil, fmt.Errorf("failed to delete flow: %w", err)
		}

		return ineligibleResponse(f.FailedReasons()), nil
	}

	if f.Status == flow.StatusComplete {
		return s.complete(ctx, f)
	}

	if err := s.repo.SaveFlow(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	q, err := f.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current question: %w", err)
	}

	return promptResponse(f, q, ""), nil
}

// complete delivers the verdict of a finished flow. An eligible intake is handed over to checkout
// and recorded as a consultation before the flow is dropped. The completed flow is stored first,
// so a failed hand-over is retried on the next request of the user.
func (s *Service) complete(ctx context.Context, f *flow.Flow) (*Response, error) {
	res, err := f.Results()
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	if !res.Eligible {
		if err := s.repo.DeleteFlow(ctx, f.ID); err != nil {
			return nil, fmt.Errorf("failed to delete flow: %w", err)
		}

		return ineligibleResponse(res.Reasons), nil
	}

	if err := s.repo.SaveFlow(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	intake := &Intake{
		ID:          intakeID(f),
		UserID:      f.ID,
		ProductID:   f.QuestionnaireID,
		Answers:     res.Answers,
		CompletedAt: time.Now(),
	}

	link, err := s.checkout.SubmitIntake(ctx, intake)
	if err != nil {
		return nil, fmt.Errorf("failed to submit intake: %w", err)
	}

	if err := s.repo.AddConsultation(ctx, f.ID, f.QuestionnaireID, intake.CompletedAt); err != nil {
		return nil, fmt.Errorf("failed to add consultation: %w", err)
	}

	if err := s.repo.DeleteFlow(ctx, f.ID); err != nil {
		return nil, fmt.Errorf("failed to delete flow: %w", err)
	}

	slog.InfoContext(ctx, "Intake submitted to checkout",
		slog.String("intake_id", link.IntakeID),
		slog.String("product", f.QuestionnaireID),
	)

	return eligibleResponse(s.productTitle(f.QuestionnaireID), s.validity, link.URL), nil
}

// intakeID is stable for a flow, so retried hand-overs carry the same id.
func intakeID(f *flow.Flow) string {
	key := f.ID + "/" + f.QuestionnaireID + "/" + f.StartedAt.UTC().Format(time.RFC3339Nano)

	return uuid.NewSHA1(intakeNamespace, []byte(key)).String()
}
