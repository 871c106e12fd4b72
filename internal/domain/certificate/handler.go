package certificate

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"certigen/internal/common"

	"github.com/gin-gonic/gin"
)

// maxTemplateBytes caps uploaded template size (10 MB, matching the relay's
// request body limit).
const maxTemplateBytes = 10 << 20

// Handler handles HTTP requests for the certificate domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new certificate handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// readTemplateUpload extracts the uploaded template bytes from the multipart
// form field "template".
func readTemplateUpload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("template")
	if err != nil {
		return nil, common.NewValidationError("template file is required")
	}
	if fileHeader.Size > maxTemplateBytes {
		return nil, common.NewValidationError("template file exceeds 10MB")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, common.NewValidationError("cannot read template file: " + err.Error())
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxTemplateBytes))
}

// splitIDs parses a comma-separated ID list, dropping empty entries.
func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// StartBatch handles POST /api/v1/batches
// Accepts a multipart form (template file + selection fields), validates the
// template and selection, and returns 202 Accepted with the batch ID.
func (h *Handler) StartBatch(c *gin.Context) {
	templateBytes, err := readTemplateUpload(c)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	req := &StartBatchRequest{
		TemplateBytes: templateBytes,
		EventID:       c.PostForm("event_id"),
		TeamIDs:       splitIDs(c.PostForm("team_ids")),
		SendEmail:     c.PostForm("send_email") == "true",
		Message:       c.PostForm("message"),
	}

	resp, err := h.service.StartBatch(c.Request.Context(), req)
	if err != nil {
		slog.Error("start batch failed",
			"event_id", req.EventID,
			"error", err,
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusAccepted, resp)
}

// GetBatch handles GET /api/v1/batches/:id
func (h *Handler) GetBatch(c *gin.Context) {
	rec, err := h.service.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{
		"batch":   rec,
		"percent": rec.Percent(),
	})
}

// ListBatches handles GET /api/v1/batches
func (h *Handler) ListBatches(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.ListBatches(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// DownloadArchive handles GET /api/v1/batches/:id/archive
// Serves the packaged zip of a completed batch.
func (h *Handler) DownloadArchive(c *gin.Context) {
	id := c.Param("id")

	path, err := h.service.ArchiveFilePath(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.FileAttachment(path, "constancias_"+id+".zip")
}

// Preview handles POST /api/v1/previews
// Renders a single certificate synchronously and returns the PDF inline.
func (h *Handler) Preview(c *gin.Context) {
	templateBytes, err := readTemplateUpload(c)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	p := Participant{
		DisplayName: c.PostForm("display_name"),
		TeamName:    c.PostForm("team_name"),
	}

	pdfBytes, err := h.service.Preview(c.Request.Context(), templateBytes, p, c.PostForm("message"))
	if err != nil {
		common.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// RegisterRoutes registers certificate routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/batches", h.StartBatch)
	rg.GET("/batches", h.ListBatches)
	rg.GET("/batches/:id", h.GetBatch)
	rg.GET("/batches/:id/archive", h.DownloadArchive)
	rg.POST("/previews", h.Preview)
}
