// Package mailer implements ollert.Mailer over SMTP with embedded HTML
// templates.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// SMTP sends transactional mail through a single SMTP endpoint. No retries:
// a failed dispatch is the caller's problem to log or surface.
type SMTP struct {
	// Host:port of the SMTP server
	Addr string

	// From address for all outgoing mail
	From string

	// Optional AUTH credentials
	Auth smtp.Auth
}

func (s *SMTP) SendVerificationEmail(to string, code string) error {
	return s.send(to, "Ollert - verify your email", "email_verification.html",
		map[string]any{"Code": code})
}

func (s *SMTP) SendPasswordResetEmail(to string, resetLink string) error {
	return s.send(to, "Ollert - reset your password", "reset_password.html",
		map[string]any{"ResetLink": resetLink})
}

func (s *SMTP) send(to, subject, templateName string, data map[string]any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("rendering %s: %w", templateName, err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	if err := smtp.SendMail(s.Addr, s.Auth, s.From, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
