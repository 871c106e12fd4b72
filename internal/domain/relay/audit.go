package relay

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// AuditLog appends delivery outcomes to a JSONL file, one entry per line.
// Appends are serialized; a failed write never fails the request that
// produced it.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

// NewAuditLog creates an audit log writing to the given file path.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Record appends one entry. The timestamp is set here.
func (a *AuditLog) Record(correo, nombre, equipo, estado string) error {
	entry := AuditEntry{
		Correo: correo,
		Nombre: nombre,
		Equipo: equipo,
		Fecha:  time.Now().UTC(),
		Estado: estado,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}

	return nil
}
