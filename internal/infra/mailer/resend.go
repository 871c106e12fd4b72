package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"certigen/internal/domain/relay"
)

var _ relay.Mailer = (*ResendMailer)(nil)

// ResendMailer sends certificate emails using the Resend API.
type ResendMailer struct {
	apiKey      string
	fromAddress string
	fromName    string
	httpClient  *http.Client
}

// NewResendMailer creates a new Resend mailer.
func NewResendMailer(apiKey, fromAddress, fromName string) *ResendMailer {
	return &ResendMailer{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers one mail via the Resend API, with the certificate attached
// as base64 content.
func (m *ResendMailer) Send(ctx context.Context, mail *relay.OutgoingMail) error {
	from := m.fromAddress
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	}

	payload := map[string]any{
		"from":    from,
		"to":      []string{mail.To},
		"subject": mail.Subject,
		"html":    mail.HTML,
	}

	// Include plain-text version if available
	if mail.Text != "" {
		payload["text"] = mail.Text
	}

	if len(mail.Attachment) > 0 {
		payload["attachments"] = []map[string]any{
			{
				"filename": mail.AttachmentName,
				"content":  base64.StdEncoding.EncodeToString(mail.Attachment),
			},
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message    string `json:"message"`
			StatusCode int    `json:"statusCode"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		msg := errResp.Message
		if msg == "" {
			msg = fmt.Sprintf("resend API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("resend: %s", msg)
	}

	return nil
}
