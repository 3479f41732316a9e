package mail

import (
	"fmt"
	"log/slog"

	"github.com/solunkeprithwiraj/todo-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers account emails. The SMTP implementation is swapped out for
// a recorder in tests.
type Mailer interface {
	SendVerificationEmail(toEmail, token string) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger,
	}
}

// SendVerificationEmail emails a verification link carrying the plaintext
// token to a freshly registered address.
func (m *SMTPMailer) SendVerificationEmail(toEmail, token string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUser == "" || m.cfg.MailFrom == "" {
		return fmt.Errorf("email config missing")
	}

	link := fmt.Sprintf("%s/api/user/verify-email?token=%s", m.cfg.BaseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.MailFrom)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Verify Your Email")
	msg.SetBody("text/html", fmt.Sprintf(`
      <h2>Welcome!</h2>
      <p>Click the link below to verify your email:</p>
      <a href="%s" style="color: blue; font-size: 16px;">Verify Email</a>
    `, link))

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("verification email sent", slog.String("to", toEmail))
	return nil
}
