package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"net/smtp"

	"github.com/redmonkez12/athena-api/internal/config"
	"github.com/redmonkez12/athena-api/internal/logging"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service delivers account emails over SMTP.
type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromAddress  string
	publicURL    string
	sendMail     sendMailFunc
}

func NewService(cfg config.EmailConfig) *Service {
	return &Service{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUser:     cfg.SMTPUser,
		smtpPassword: cfg.SMTPPassword,
		fromAddress:  cfg.FromAddress,
		publicURL:    cfg.PublicURL,
		sendMail:     smtp.SendMail,
	}
}

// ConfirmationLink is the page the user opens to confirm their address.
func (s *Service) ConfirmationLink(token string) string {
	return fmt.Sprintf("%s/confirmation/%s", s.publicURL, token)
}

// ResetLink is the page the user opens to choose a new password.
func (s *Service) ResetLink(token string) string {
	return fmt.Sprintf("%s/reset/%s", s.publicURL, token)
}

// SendConfirmationEmail sends the email confirmation link.
func (s *Service) SendConfirmationEmail(ctx context.Context, toEmail, token string) error {
	return s.send(ctx, toEmail, "Confirm your Athena account", confirmationTemplate, s.ConfirmationLink(token))
}

// SendPasswordResetEmail sends the password reset link.
func (s *Service) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	return s.send(ctx, toEmail, "Reset your Athena password", resetTemplate, s.ResetLink(token))
}

func (s *Service) send(ctx context.Context, toEmail, subject string, tmpl *template.Template, link string) error {
	logger := logging.GetLoggerFromContext(ctx)

	var body bytes.Buffer
	if err := tmpl.Execute(&body, struct{ Link string }{Link: link}); err != nil {
		logger.Error("failed to render email template", "template", tmpl.Name(), "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body.String()); err != nil {
		logger.Error("failed to send email", "template", tmpl.Name(), "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("email sent", "template", tmpl.Name(), "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	var auth smtp.Auth
	if s.smtpUser != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromAddress, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return s.sendMail(addr, auth, s.envelopeFrom(), []string{to}, msg)
}

// envelopeFrom is the bare address of the From header, falling back to the
// SMTP user.
func (s *Service) envelopeFrom() string {
	if addr, err := mail.ParseAddress(s.fromAddress); err == nil {
		return addr.Address
	}
	return s.smtpUser
}
