package service

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// RecoveryLinkBuilder builds the outbound URLs embedded in recovery emails.
// Recovery links carry sequence and step attribution so a completed order
// can be traced back to the email that drove it.
type RecoveryLinkBuilder struct {
	apiEndpoint string
}

// NewRecoveryLinkBuilder creates a new RecoveryLinkBuilder
func NewRecoveryLinkBuilder(apiEndpoint string) *RecoveryLinkBuilder {
	return &RecoveryLinkBuilder{apiEndpoint: strings.TrimRight(apiEndpoint, "/")}
}

// RecoveryURL decorates the platform checkout URL with attribution params
func (b *RecoveryLinkBuilder) RecoveryURL(checkoutURL, sequenceID string, stepIndex int) string {
	if checkoutURL == "" {
		return ""
	}

	parsed, err := url.Parse(checkoutURL)
	if err != nil {
		return checkoutURL
	}

	q := parsed.Query()
	q.Set("utm_source", "cartpulse")
	q.Set("utm_medium", "email")
	q.Set("cp_sequence", sequenceID)
	q.Set("cp_step", strconv.Itoa(stepIndex))
	parsed.RawQuery = q.Encode()

	return parsed.String()
}

// UnsubscribeURL builds the public one-click unsubscribe link
func (b *RecoveryLinkBuilder) UnsubscribeURL(token string) string {
	return fmt.Sprintf("%s/unsubscribe?token=%s", b.apiEndpoint, url.QueryEscape(token))
}

// renderRecoveryEmailHTML wraps composed content in the shared recovery
// layout: body paragraphs, call-to-action button, cart summary table and
// the unsubscribe footer.
func renderRecoveryEmailHTML(msg domain.ComposedMessage, checkout *domain.Checkout, recoveryURL, unsubscribeURL string) string {
	var sb strings.Builder

	sb.WriteString(`<div style="font-family: Helvetica, Arial, sans-serif; max-width: 560px; margin: 0 auto;">`)
	sb.WriteString(msg.BodyHTML)

	if len(checkout.LineItems) > 0 {
		sb.WriteString(`<table style="width: 100%; border-collapse: collapse; margin: 16px 0;">`)
		for _, item := range checkout.LineItems {
			sb.WriteString(`<tr><td style="padding: 4px 0;">`)
			sb.WriteString(fmt.Sprintf("%d&times; %s", item.Quantity, html.EscapeString(item.Title)))
			sb.WriteString(`</td><td style="padding: 4px 0; text-align: right;">`)
			sb.WriteString(fmt.Sprintf("%.2f %s", item.Price, html.EscapeString(checkout.Currency)))
			sb.WriteString(`</td></tr>`)
		}
		sb.WriteString(`</table>`)
	}

	if recoveryURL != "" {
		sb.WriteString(fmt.Sprintf(
			`<p style="margin: 24px 0;"><a href="%s" style="background: #1a73e8; color: #ffffff; padding: 12px 24px; border-radius: 4px; text-decoration: none;">%s</a></p>`,
			recoveryURL, html.EscapeString(msg.CTAText),
		))
	}

	sb.WriteString(fmt.Sprintf(
		`<p style="font-size: 12px; color: #888888; margin-top: 32px;"><a href="%s" style="color: #888888;">Unsubscribe</a> from cart reminders.</p>`,
		unsubscribeURL,
	))
	sb.WriteString(`</div>`)

	return sb.String()
}

// renderRecoveryEmailText is the plain-text alternative body
func renderRecoveryEmailText(msg domain.ComposedMessage, recoveryURL, unsubscribeURL string) string {
	var sb strings.Builder

	sb.WriteString(stripTags(msg.BodyHTML))
	if recoveryURL != "" {
		sb.WriteString("\n\n")
		sb.WriteString(msg.CTAText)
		sb.WriteString(": ")
		sb.WriteString(recoveryURL)
	}
	sb.WriteString("\n\nUnsubscribe from cart reminders: ")
	sb.WriteString(unsubscribeURL)

	return sb.String()
}

// stripTags is a crude tag remover good enough for the simple paragraph
// HTML the composer produces.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			if inTag {
				inTag = false
				sb.WriteRune(' ')
			}
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}
