package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ksysoev/intakebot/pkg/core/flow"
)

// ListProducts returns the products a consultation can be started for.
func (s *Service) ListProducts(_ context.Context) []Product {
	return s.catalog.Products()
}

// StartConsultation begins the questionnaire of the given product for the user.
// A flow already in progress for the same product is resumed, a flow for another product is replaced.
// A completed flow whose hand-off to checkout failed earlier is handed off first.
// When the user holds a valid consultation for the product no flow is started at all.
func (s *Service) StartConsultation(ctx context.Context, userID, productID string) (*Response, error) {
	qn, err := s.catalog.Questionnaire(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}

	consultations, err := s.ConsultationStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, c := range consultations {
		if c.ProductID == productID {
			return &Response{
				Message:  fmt.Sprintf(alreadyConsultedMessage, s.productTitle(productID), c.ValidUntil.Format(dateLayout)),
				Done:     true,
				Eligible: true,
			}, nil
		}
	}

	f, err := s.loadFlow(ctx, userID)

	switch {
	case errors.Is(err, ErrNoActiveFlow):
	case err != nil:
		return nil, err
	case f.Status == flow.StatusComplete:
		// A finished flow still waiting for its hand-off is completed before anything else.
		resp, err := s.complete(ctx, f)
		if err != nil {
			return nil, err
		}

		if f.QuestionnaireID == productID {
			return resp, nil
		}
	case f.QuestionnaireID == productID:
		q, err := f.Current()
		if err != nil {
			return nil, fmt.Errorf("failed to get current question: %w", err)
		}

		return promptResponse(f, q, resumeMessage), nil
	}

	f = flow.New(userID)

	if err := f.Start(qn); err != nil {
		return nil, fmt.Errorf("failed to start flow: %w", err)
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

// ConsultationStatus returns the consultations of the user that are still valid.
func (s *Service) ConsultationStatus(ctx context.Context, userID string) ([]Consultation, error) {
	consultations, err := s.repo.GetConsultations(ctx, userID, time.Now().Add(-s.validity))
	if err != nil {
		return nil, fmt.Errorf("failed to get consultations: %w", err)
	}

	for i := range consultations {
		consultations[i].ValidUntil = consultations[i].CompletedAt.Add(s.validity)
	}

	return consultations, nil
}

// ResetFlow drops the consultation in progress, if any.
func (s *Service) ResetFlow(ctx context.Context, userID string) error {
	if err := s.repo.DeleteFlow(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	return nil
}

// loadFlow fetches the flow of the user and re-attaches its questionnaire.
func (s *Service) loadFlow(ctx context.Context, userID string) (*flow.Flow, error) {
	f, err := s.repo.GetFlow(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flow: %w", err)
	}

	if f.Status == flow.StatusIdle {
		return nil, ErrNoActiveFlow
	}

	qn, err := s.catalog.Questionnaire(f.QuestionnaireID)

	switch {
	case errors.Is(err, ErrProductNotFound):
		return nil, s.discardFlow(ctx, userID)
	case err != nil:
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}

	err = f.Bind(qn)

	switch {
	case errors.Is(err, flow.ErrQuestionnaireMismatch):
		return nil, s.discardFlow(ctx, userID)
	case err != nil:
		return nil, fmt.Errorf("failed to bind flow: %w", err)
	}

	return f, nil
}

// discardFlow drops a stored flow whose question set is gone or changed and can no longer be continued.
func (s *Service) discardFlow(ctx context.Context, userID string) error {
	if err := s.repo.DeleteFlow(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	return ErrNoActiveFlow
}

func (s *Service) productTitle(productID string) string {
	for _, p := range s.catalog.Products() {
		if p.ID == productID {
			return p.Title
		}
	}

	return productID
}
