package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/osteele/liquid"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// stepTone describes the escalation of one campaign step
type stepTone struct {
	name     string
	fallback fallbackTemplate
}

// fallbackTemplate is the pre-written content used whenever text generation
// fails. Bodies are liquid templates interpolating only customer_name.
type fallbackTemplate struct {
	Subject string
	Body    string
	CTA     string
}

// stepTones is the tone progression across the campaign. Step indexes past
// the end clamp to the final appeal.
var stepTones = []stepTone{
	{
		name: "gentle reminder",
		fallback: fallbackTemplate{
			Subject: "You left something behind",
			Body: "<p>Hi {{ customer_name }},</p>" +
				"<p>Looks like you didn't finish checking out. Your cart is saved and waiting for you whenever you're ready.</p>",
			CTA: "Finish your order",
		},
	},
	{
		name: "social proof",
		fallback: fallbackTemplate{
			Subject: "Your cart is still waiting",
			Body: "<p>Hi {{ customer_name }},</p>" +
				"<p>These items have been going fast lately. We're keeping your cart safe, but we can't promise stock forever.</p>",
			CTA: "Return to your cart",
		},
	},
	{
		name: "urgency",
		fallback: fallbackTemplate{
			Subject: "Your cart expires soon",
			Body: "<p>Hi {{ customer_name }},</p>" +
				"<p>We can only hold your items a little longer. Complete your order now so you don't miss out.</p>",
			CTA: "Complete checkout now",
		},
	},
	{
		name: "final appeal",
		fallback: fallbackTemplate{
			Subject: "Last chance to complete your order",
			Body: "<p>Hi {{ customer_name }},</p>" +
				"<p>This is our last reminder about your cart. If there's anything holding you back, we'd love to help.</p>",
			CTA: "Claim your cart",
		},
	},
}

// MessageComposer writes the content of one recovery email per step. It
// never fails: a broken, slow or malformed generation falls back to the
// static template for the step, so a campaign cannot stall on the AI call.
type MessageComposer struct {
	generator domain.TextGenerator
	timeout   time.Duration
	engine    *liquid.Engine
	logger    logger.Logger
}

// NewMessageComposer creates a new MessageComposer
func NewMessageComposer(generator domain.TextGenerator, timeout time.Duration, logger logger.Logger) *MessageComposer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MessageComposer{
		generator: generator,
		timeout:   timeout,
		engine:    liquid.NewEngine(),
		logger:    logger,
	}
}

// Compose produces the subject, body and call-to-action for one step
func (c *MessageComposer) Compose(ctx context.Context, input domain.ComposeInput) domain.ComposedMessage {
	tone := stepTones[clampStepIndex(input.StepIndex)]

	if c.generator != nil {
		msg, err := c.generate(ctx, input, tone.name)
		if err == nil {
			return msg
		}
		c.logger.WithFields(map[string]interface{}{
			"step_index": input.StepIndex,
			"tone":       tone.name,
			"error":      err.Error(),
		}).Warn("Text generation failed, using fallback template")
	}

	return c.fallbackMessage(input, tone)
}

func (c *MessageComposer) generate(ctx context.Context, input domain.ComposeInput, tone string) (domain.ComposedMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.generator.GenerateJSON(ctx, buildPrompt(input, tone))
	if err != nil {
		return domain.ComposedMessage{}, fmt.Errorf("generation call failed: %w", err)
	}

	var msg domain.ComposedMessage
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &msg); err != nil {
		return domain.ComposedMessage{}, fmt.Errorf("generated output is not valid JSON: %w", err)
	}

	if msg.Subject == "" || msg.BodyHTML == "" {
		return domain.ComposedMessage{}, fmt.Errorf("generated output is missing subject or body")
	}
	if msg.CTAText == "" {
		msg.CTAText = "Return to your cart"
	}

	return msg, nil
}

// fallbackMessage renders the static template with only the customer's
// display name interpolated.
func (c *MessageComposer) fallbackMessage(input domain.ComposeInput, tone stepTone) domain.ComposedMessage {
	bindings := map[string]interface{}{
		"customer_name": displayName(input.CustomerName),
	}

	body, err := c.engine.ParseAndRenderString(tone.fallback.Body, bindings)
	if err != nil {
		// The templates are static; a render failure means a template bug,
		// not bad input.
		c.logger.WithField("error", err.Error()).Error("Failed to render fallback template")
		body = tone.fallback.Body
	}

	return domain.ComposedMessage{
		Subject:  tone.fallback.Subject,
		BodyHTML: body,
		CTAText:  tone.fallback.CTA,
		Fallback: true,
	}
}

func buildPrompt(input domain.ComposeInput, tone string) string {
	var sb strings.Builder

	sb.WriteString("You write cart recovery emails for the store ")
	sb.WriteString(fmt.Sprintf("%q. ", input.StoreName))
	sb.WriteString(fmt.Sprintf("Write email %d of the campaign with a %s tone ", input.StepIndex+1, tone))
	sb.WriteString(fmt.Sprintf("for a %s customer.\n\n", strings.ReplaceAll(string(input.SequenceType), "_", " ")))

	sb.WriteString(fmt.Sprintf("Customer name: %s\n", displayName(input.CustomerName)))
	sb.WriteString(fmt.Sprintf("Cart total: %.2f %s\n", input.TotalPrice, input.Currency))
	sb.WriteString("Cart items:\n")
	for _, item := range input.CartItems {
		sb.WriteString(fmt.Sprintf("- %dx %s (%.2f)\n", item.Quantity, item.Title, item.Price))
	}

	if input.DiscountPercent > 0 {
		sb.WriteString(fmt.Sprintf("\nOffer a %d%% discount as the closing incentive.\n", input.DiscountPercent))
	}

	sb.WriteString("\nRespond with exactly one JSON object and nothing else: ")
	sb.WriteString(`{"subject": string, "body_html": string, "cta_text": string}. `)
	sb.WriteString("body_html is simple HTML paragraphs without links; the call to action button is added separately.")

	return sb.String()
}

// stripCodeFences tolerates a model wrapping its JSON in ``` or ```json
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the fence language tag line ("json", "html", ...)
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clampStepIndex(stepIndex int) int {
	if stepIndex < 0 {
		return 0
	}
	if stepIndex >= len(stepTones) {
		return len(stepTones) - 1
	}
	return stepIndex
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	return name
}
