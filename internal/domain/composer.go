package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_text_generator.go -package mocks github.com/cartpulse/cartpulse/internal/domain TextGenerator

// ComposeInput is everything the composer needs to write one step email
type ComposeInput struct {
	StoreName       string
	CustomerName    string
	CartItems       LineItems
	TotalPrice      float64
	Currency        string
	StepIndex       int
	SequenceType    SequenceType
	DiscountPercent int // 0 means no discount offer on this step
}

// ComposedMessage is the content of one recovery email before layout
// rendering.
type ComposedMessage struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	CTAText  string `json:"cta_text"`
	// Fallback reports whether the static template was used instead of
	// generated content.
	Fallback bool `json:"-"`
}

// TextGenerator is the external text-generation collaborator. The composer
// treats any error, timeout or malformed response identically: it discards
// the output and uses the static template for the step.
type TextGenerator interface {
	// GenerateJSON sends the prompt and returns the raw model output,
	// expected to be a single JSON object (possibly fenced in markdown).
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
