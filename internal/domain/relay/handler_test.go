package relay

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, mailer Mailer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auditPath := filepath.Join(t.TempDir(), "envios.log")
	h := NewHandler(NewService(mailer, stubBody{}, NewAuditLog(auditPath)))

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/enviarConstancia", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendCertificateEndpoint(t *testing.T) {
	mailer := &stubMailer{}
	r := newTestRouter(t, mailer)

	w := postJSON(t, r, SendRequest{
		Correo: "ana@example.com",
		Nombre: "Ana",
		Equipo: "Alfa",
		PDF:    base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 cert")),
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Correo enviado correctamente", resp["message"])
	assert.Len(t, mailer.sent, 1)
}

func TestSendCertificateEndpointMissingFields(t *testing.T) {
	mailer := &stubMailer{}
	r := newTestRouter(t, mailer)

	w := postJSON(t, r, map[string]string{"correo": "ana@example.com"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "missing required fields")
	assert.Empty(t, mailer.sent)
}

func TestSendCertificateEndpointMailerFailure(t *testing.T) {
	r := newTestRouter(t, &stubMailer{err: errors.New("smtp down")})

	w := postJSON(t, r, SendRequest{
		Correo: "ana@example.com",
		Nombre: "Ana",
		Equipo: "Alfa",
		PDF:    base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 cert")),
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error al enviar el correo", resp["error"])
}

func TestSendCertificateEndpointOversizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mailer := &stubMailer{}
	r := newTestRouter(t, mailer)

	// Just past the 10 MB cap before base64 expansion pushes it further.
	payload := []byte(`{"correo":"ana@example.com","nombre":"Ana","equipo":"Alfa","pdf":"`)
	payload = append(payload, bytes.Repeat([]byte("A"), maxBodyBytes)...)
	payload = append(payload, '"', '}')

	req := httptest.NewRequest(http.MethodPost, "/enviarConstancia", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mailer.sent)
}

func TestSendCertificateEndpointBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newTestRouter(t, &stubMailer{})

	req := httptest.NewRequest(http.MethodPost, "/enviarConstancia", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
