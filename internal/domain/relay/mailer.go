package relay

import "context"

// Mailer defines the contract for the outbound email transport.
// Implementations live in infra/mailer (SMTP, Resend).
type Mailer interface {
	// Send delivers one composed mail with its attachment.
	Send(ctx context.Context, mail *OutgoingMail) error
}

// BodyRenderer defines the contract for rendering the certificate mail body.
// Implementations live in infra/template/.
type BodyRenderer interface {
	// Render produces a subject line, HTML body, and plain-text body for the
	// certificate email.
	Render(data map[string]any) (subject, html, text string, err error)
}
