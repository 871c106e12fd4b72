package certificate

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
)

// Delivery is one certificate submission to the mail relay.
type Delivery struct {
	Address        string
	DisplayName    string
	TeamName       string
	DocumentBase64 string
}

// RelayClient defines the contract for submitting one certificate to the
// mail relay. Implementations live in infra/relay.
type RelayClient interface {
	SendCertificate(ctx context.Context, d Delivery) error
}

// Dispatcher submits rendered certificates to the mail relay, one at a time.
// A failed delivery is logged and skipped; it never halts the remaining
// deliveries. Participants without a contact address are excluded from the
// attempt count.
type Dispatcher struct {
	relay   RelayClient
	limiter RecipientRateLimiter
}

// NewDispatcher creates a dispatcher. limiter may be nil to disable
// per-recipient throttling.
func NewDispatcher(relay RelayClient, limiter RecipientRateLimiter) *Dispatcher {
	return &Dispatcher{relay: relay, limiter: limiter}
}

// Dispatch delivers the certificates sequentially and reports the aggregate
// outcome. Per-item detail is only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, certs []RenderedCertificate) DeliveryReport {
	var report DeliveryReport

	for _, cert := range certs {
		addr := strings.TrimSpace(cert.Participant.ContactAddress)
		if addr == "" {
			report.Skipped++
			continue
		}

		if d.limiter != nil {
			allowed, err := d.limiter.Allow(ctx, addr)
			if err != nil {
				// Limiter errors never block deliveries.
				slog.Error("delivery rate limit check failed, proceeding", "recipient", addr, "error", err)
			} else if !allowed {
				slog.Warn("delivery throttled for recipient", "recipient", addr)
				report.Skipped++
				continue
			}
		}

		report.Attempted++
		delivery := Delivery{
			Address:        addr,
			DisplayName:    cert.Participant.DisplayName,
			TeamName:       cert.Participant.TeamName,
			DocumentBase64: base64.StdEncoding.EncodeToString(cert.DocumentBytes),
		}

		if err := d.relay.SendCertificate(ctx, delivery); err != nil {
			slog.Error("certificate delivery failed",
				"recipient", addr,
				"participant", cert.Participant.DisplayName,
				"error", err,
			)
			report.Failed++
			continue
		}

		report.Sent++
		slog.Info("certificate delivered",
			"recipient", addr,
			"participant", cert.Participant.DisplayName,
		)
	}

	return report
}
