package ollert

import "log"

// Mailer allows applications to provide their own email sending
// implementation. Implementations must not retry; dispatch is
// fire-and-forget from the core's perspective.
type Mailer interface {
	SendVerificationEmail(to string, code string) error
	SendPasswordResetEmail(to string, resetLink string) error
}

// ConsoleMailer is a development implementation that logs emails to console
type ConsoleMailer struct{}

func (c *ConsoleMailer) SendVerificationEmail(to string, code string) error {
	log.Printf("\n=== EMAIL: Verification ===")
	log.Printf("To: %s", to)
	log.Printf("Subject: Ollert - verify your email")
	log.Printf("Body: Your verification code is %s", code)
	log.Printf("===========================\n")
	return nil
}

func (c *ConsoleMailer) SendPasswordResetEmail(to string, resetLink string) error {
	log.Printf("\n=== EMAIL: Password Reset ===")
	log.Printf("To: %s", to)
	log.Printf("Subject: Ollert - reset your password")
	log.Printf("Body: Reset your password by clicking: %s", resetLink)
	log.Printf("==============================\n")
	return nil
}
