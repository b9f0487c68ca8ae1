package mailer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=pkgmocks github.com/cartpulse/cartpulse/pkg/mailer Mailer

// RecoveryEmail is one fully rendered recovery message ready to send
type RecoveryEmail struct {
	To        string
	ToName    string
	FromEmail string
	FromName  string
	Subject   string
	HTMLBody  string
	TextBody  string
}

// Mailer is the interface for sending recovery emails. Implementations
// return the provider message id recorded in the sequence step history.
type Mailer interface {
	SendRecoveryEmail(email RecoveryEmail) (messageID string, err error)
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: false,
	}
}

// NewTestSMTPMailer creates a mailer in test mode that builds messages but
// never connects to an SMTP server.
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: true,
	}
}

// SendRecoveryEmail sends one recovery email and returns its message id
func (m *SMTPMailer) SendRecoveryEmail(email RecoveryEmail) (string, error) {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	fromEmail := email.FromEmail
	if fromEmail == "" {
		fromEmail = m.config.FromEmail
	}
	fromName := email.FromName
	if fromName == "" {
		fromName = m.config.FromName
	}

	if err := msg.FromFormat(fromName, fromEmail); err != nil {
		return "", fmt.Errorf("failed to set email from address: %w", err)
	}

	if email.ToName != "" {
		if err := msg.AddToFormat(email.ToName, email.To); err != nil {
			return "", fmt.Errorf("failed to set email recipient: %w", err)
		}
	} else {
		if err := msg.To(email.To); err != nil {
			return "", fmt.Errorf("failed to set email recipient: %w", err)
		}
	}

	messageID := uuid.New().String()
	msg.SetMessageIDWithValue(messageID)
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
	if email.TextBody != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.TextBody)
	}

	if m.testMode {
		return messageID, nil
	}

	client, err := mail.NewClient(m.config.SMTPHost,
		mail.WithPort(m.config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.SMTPUsername),
		mail.WithPassword(m.config.SMTPPassword),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("failed to send recovery email: %w", err)
	}

	return messageID, nil
}
