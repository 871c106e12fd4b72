package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"certigen/internal/common"
	"certigen/internal/domain/certificate"
)

// Service composes and sends one certificate email per request.
type Service struct {
	mailer   Mailer
	renderer BodyRenderer
	audit    *AuditLog
}

// NewService creates a new relay service.
func NewService(mailer Mailer, renderer BodyRenderer, audit *AuditLog) *Service {
	return &Service{
		mailer:   mailer,
		renderer: renderer,
		audit:    audit,
	}
}

// Send validates the request, decodes the attached certificate and delivers
// the email. Every attempt lands in the audit log with its outcome.
func (s *Service) Send(ctx context.Context, req *SendRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	pdf, err := base64.StdEncoding.DecodeString(req.PDF)
	if err != nil {
		return common.NewValidationError("pdf is not valid base64")
	}
	if !certificate.HasPDFHeader(pdf) {
		return common.NewValidationError("pdf payload is not a PDF document")
	}

	subject, html, text, err := s.renderer.Render(map[string]any{
		"Nombre": req.Nombre,
		"Equipo": req.Equipo,
	})
	if err != nil {
		return fmt.Errorf("rendering mail body: %w", err)
	}

	p := certificate.Participant{DisplayName: req.Nombre, TeamName: req.Equipo}
	mail := &OutgoingMail{
		To:             req.Correo,
		ToName:         req.Nombre,
		Subject:        subject,
		HTML:           html,
		Text:           text,
		AttachmentName: certificate.ArchiveFileName(p),
		Attachment:     pdf,
	}

	if err := s.mailer.Send(ctx, mail); err != nil {
		s.record(req, EstadoError)
		return common.NewDeliveryError(req.Correo, err.Error())
	}

	s.record(req, EstadoEnviado)
	return nil
}

func (s *Service) record(req *SendRequest, estado string) {
	if err := s.audit.Record(req.Correo, req.Nombre, req.Equipo, estado); err != nil {
		slog.Error("audit log write failed", "error", err, "correo", req.Correo)
	}
}

func validate(req *SendRequest) error {
	var missing []string
	if strings.TrimSpace(req.Correo) == "" {
		missing = append(missing, "correo")
	}
	if strings.TrimSpace(req.Nombre) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(req.Equipo) == "" {
		missing = append(missing, "equipo")
	}
	if strings.TrimSpace(req.PDF) == "" {
		missing = append(missing, "pdf")
	}

	if len(missing) > 0 {
		return common.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}
