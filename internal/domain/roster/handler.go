package roster

import (
	"net/http"

	"certigen/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the roster domain.
type Handler struct {
	service *Service
}

// NewHandler creates a new roster handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListEvents handles GET /api/v1/eventos
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, events)
}

// CreateEvent handles POST /api/v1/eventos
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ev, err := h.service.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, ev)
}

// DeleteEvent handles DELETE /api/v1/eventos/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.service.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListTeams handles GET /api/v1/eventos/:id/equipos
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.service.ListTeams(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, teams)
}

// CreateTeam handles POST /api/v1/equipos
func (h *Handler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := h.service.CreateTeam(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, t)
}

// DeleteTeam handles DELETE /api/v1/equipos/:id
func (h *Handler) DeleteTeam(c *gin.Context) {
	if err := h.service.DeleteTeam(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// CreateMember handles POST /api/v1/integrantes
func (h *Handler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.service.CreateMember(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusCreated, m)
}

// DeleteMember handles DELETE /api/v1/integrantes/:id
func (h *Handler) DeleteMember(c *gin.Context) {
	if err := h.service.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// RegisterRoutes registers roster routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/eventos", h.ListEvents)
	rg.POST("/eventos", h.CreateEvent)
	rg.DELETE("/eventos/:id", h.DeleteEvent)
	rg.GET("/eventos/:id/equipos", h.ListTeams)
	rg.POST("/equipos", h.CreateTeam)
	rg.DELETE("/equipos/:id", h.DeleteTeam)
	rg.POST("/integrantes", h.CreateMember)
	rg.DELETE("/integrantes/:id", h.DeleteMember)
}
