package relay

import (
	"errors"
	"log/slog"
	"net/http"

	"certigen/internal/common"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps relay request bodies. Certificates arrive base64-encoded
// inside the JSON payload; the historical limit is 10 MB.
const maxBodyBytes = 10 << 20

// Handler handles HTTP requests for the mail relay. Responses use the bare
// {message}/{error} shape the batch dispatcher and the legacy frontend
// expect, not the standard API envelope.
type Handler struct {
	service *Service
}

// NewHandler creates a new relay handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendCertificate handles POST /enviarConstancia
func (h *Handler) SendCertificate(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.service.Send(c.Request.Context(), &req); err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}

		slog.Error("certificate mail failed",
			"error", err,
			"correo", req.Correo,
			"equipo", req.Equipo,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al enviar el correo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Correo enviado correctamente"})
}

// RegisterRoutes registers relay routes on the engine root. The path is part
// of the wire contract.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/enviarConstancia", limitBody, h.SendCertificate)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "certigen-relay"})
	})
}

// limitBody rejects request bodies over maxBodyBytes before JSON decoding.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	c.Next()
}
