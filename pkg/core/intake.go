package core

import (
	"errors"
	"time"

	"github.com/ksysoev/intakebot/pkg/core/flow"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoActiveFlow    = errors.New("no consultation in progress")
)

type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Intake is a completed, eligible questionnaire handed over to checkout.
type Intake struct {
	CompletedAt time.Time
	Answers     map[string]flow.Value
	ID          string
	UserID      string
	ProductID   string
}

type CheckoutLink struct {
	IntakeID string
	URL      string
}

// Consultation is a completed eligible consultation. It lets the patient order the product again
// without repeating the questionnaire until ValidUntil.
type Consultation struct {
	CompletedAt time.Time `json:"completed_at"`
	ValidUntil  time.Time `json:"valid_until"`
	ProductID   string    `json:"product_id"`
}

// Prompt describes the question a client has to answer next.
type Prompt struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Kind     flow.Kind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Number   int       `json:"number"`
	Total    int       `json:"total"`
	Required bool      `json:"required"`
}

// Response is what the service has to say to the patient. Answers are suggested replies
// suitable for a keyboard. Done marks the end of a consultation, with Eligible holding the verdict.
type Response struct {
	Prompt      *Prompt  `json:"question,omitempty"`
	Message     string   `json:"message"`
	CheckoutURL string   `json:"checkout_url,omitempty"`
	Answers     []string `json:"answers,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
	Done        bool     `json:"done"`
	Eligible    bool     `json:"eligible"`
}
