package core

import (
	"context"
	"time"

	"github.com/ksysoev/intakebot/pkg/core/flow"
)

const defaultConsultationValidity = 90 * 24 * time.Hour

type FlowRepo interface {
	GetFlow(ctx context.Context, userID string) (*flow.Flow, error)
	SaveFlow(ctx context.Context, f *flow.Flow) error
	DeleteFlow(ctx context.Context, userID string) error
	AddConsultation(ctx context.Context, userID, productID string, completedAt time.Time) error
	GetConsultations(ctx context.Context, userID string, since time.Time) ([]Consultation, error)
}

type Catalog interface {
	Products() []Product
	Questionnaire(productID string) (*flow.Questionnaire, error)
}

type CheckoutProv interface {
	SubmitIntake(ctx context.Context, intake *Intake) (*CheckoutLink, error)
}

// Config controls how completed and in-progress consultations are treated.
// EarlyExit ends a flow with an ineligible verdict as soon as any answer disqualifies the patient;
// otherwise the verdict is only given after the last question.
type Config struct {
	ConsultationValidity time.Duration `mapstructure:"consultation_validity"`
	EarlyExit            bool          `mapstructure:"early_exit"`
}

type Service struct {
	repo     FlowRepo
	catalog  Catalog
	checkout CheckoutProv
	validity time.Duration
	early    bool
}

func New(cfg Config, repo FlowRepo, catalog Catalog, checkout CheckoutProv) *Service {
	validity := cfg.ConsultationValidity
	if validity <= 0 {
		validity = defaultConsultationValidity
	}

	return &Service{
		repo:     repo,
		catalog:  catalog,
		checkout: checkout,
		validity: validity,
		early:    cfg.EarlyExit,
	}
}
