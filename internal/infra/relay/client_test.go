package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"certigen/internal/common"
	"certigen/internal/domain/certificate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCertificate(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/enviarConstancia", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Correo enviado correctamente"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendCertificate(context.Background(), certificate.Delivery{
		Address:        "ana@example.com",
		DisplayName:    "Ana",
		TeamName:       "Alfa",
		DocumentBase64: "JVBERi0=",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", got.Correo)
	assert.Equal(t, "Ana", got.Nombre)
	assert.Equal(t, "Alfa", got.Equipo)
	assert.Equal(t, "JVBERi0=", got.PDF)
}

func TestSendCertificateRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Error al enviar el correo"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendCertificate(context.Background(), certificate.Delivery{Address: "ana@example.com"})

	var deliveryErr *common.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "ana@example.com", deliveryErr.Recipient)
	assert.Contains(t, deliveryErr.Message, "Error al enviar el correo")
}

func TestSendCertificateNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SendCertificate(context.Background(), certificate.Delivery{Address: "ana@example.com"})

	var deliveryErr *common.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Contains(t, deliveryErr.Message, "502")
}

func TestSendCertificateConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here

	err := c.SendCertificate(context.Background(), certificate.Delivery{Address: "ana@example.com"})

	var deliveryErr *common.DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
}
