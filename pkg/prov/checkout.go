package prov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	Url     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Checkout is a client of the storefront checkout service.
type Checkout struct {
	baseUrl string
	apiKey  string
	cl      *http.Client
}

// New creates and returns a new instance of the Checkout struct initialized with the provided configuration.
func New(cfg Config) *Checkout {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Checkout{
		baseUrl: cfg.Url,
		apiKey:  cfg.APIKey,
		cl: &http.Client{
			Timeout: timeout,
		},
	}
}

type submitIntakeRequest struct {
	CompletedAt time.Time             `json:"completed_at"`
	Answers     map[string]flow.Value `json:"answers"`
	IntakeID    string                `json:"intake_id"`
	UserID      string                `json:"user_id"`
	ProductID   string                `json:"product_id"`
}

type submitIntakeResponse struct {
	IntakeID    string `json:"intake_id"`
	CheckoutURL string `json:"checkout_url"`
}

// SubmitIntake hands a completed eligible intake over to checkout and returns the link the patient
// completes the order with.
func (c *Checkout) SubmitIntake(ctx context.Context, intake *core.Intake) (*core.CheckoutLink, error) {
	jsonReq, err := json.Marshal(submitIntakeRequest{
		IntakeID:    intake.ID,
		UserID:      intake.UserID,
		ProductID:   intake.ProductID,
		Answers:     intake.Answers,
		CompletedAt: intake.CompletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/intakes", bytes.NewReader(jsonReq))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to submit intake, status code: %d", resp.StatusCode)
	}

	var link submitIntakeResponse

	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if link.CheckoutURL == "" {
		return nil, fmt.Errorf("checkout returned no url for intake %s", intake.ID)
	}

	if link.IntakeID == "" {
		link.IntakeID = intake.ID
	}

	return &core.CheckoutLink{
		IntakeID: link.IntakeID,
		URL:      link.CheckoutURL,
	}, nil
}
