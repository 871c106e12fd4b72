package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"certigen/internal/domain/relay"

	"gopkg.in/gomail.v2"
)

var _ relay.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends certificate emails over plain SMTP.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
}

// NewSMTPMailer creates a new SMTP mailer.
func NewSMTPMailer(host string, port int, username, password, fromAddress, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// Send delivers one mail with its PDF attachment. gomail has no context
// support; cancellation is checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, mail *relay.OutgoingMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddress, m.fromName)
	msg.SetAddressHeader("To", mail.To, mail.ToName)
	msg.SetHeader("Subject", mail.Subject)

	if mail.Text != "" {
		msg.SetBody("text/plain", mail.Text)
		msg.AddAlternative("text/html", mail.HTML)
	} else {
		msg.SetBody("text/html", mail.HTML)
	}

	if len(mail.Attachment) > 0 {
		msg.Attach(mail.AttachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(mail.Attachment))
				return err
			}),
		)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
