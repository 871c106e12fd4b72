package relay

import "time"

// SendRequest is the /enviarConstancia payload. Field names are the wire
// contract shared with the batch dispatcher and predate this service; they
// stay in Spanish.
type SendRequest struct {
	Correo string `json:"correo"`
	Nombre string `json:"nombre"`
	Equipo string `json:"equipo"`
	PDF    string `json:"pdf"`
}

// OutgoingMail is one composed certificate email ready for a mailer.
type OutgoingMail struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string

	AttachmentName string
	Attachment     []byte
}

// AuditEntry is one line of the delivery audit log, JSON-encoded per line.
// Field names match the historical log format.
type AuditEntry struct {
	Correo string    `json:"correo"`
	Nombre string    `json:"nombre"`
	Equipo string    `json:"equipo"`
	Fecha  time.Time `json:"fecha"`
	Estado string    `json:"estado"`
}

const (
	EstadoEnviado = "enviado"
	EstadoError   = "error"
)
