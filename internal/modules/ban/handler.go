package ban

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"varaamo/internal/domain"
	"varaamo/internal/middleware"
	"varaamo/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bans", middleware.AdminOnly(), h.Ban)
	rg.POST("/bans/lift", middleware.AdminOnly(), h.Unban)
	rg.GET("/users/:id/bans", h.History)
	rg.GET("/users/:id/ban-status", h.Status)
}

func (h *Handler) Ban(c *gin.Context) {
	var req BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	b, err := h.service.Ban(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err, "Failed to create ban")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"ban": b})
}

func (h *Handler) Unban(c *gin.Context) {
	var req UnbanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	b, err := h.service.Unban(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err, "Failed to lift ban")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ban": b})
}

func (h *Handler) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	actor := middleware.ActorFromContext(c)
	history, err := h.service.History(c.Request.Context(), actor, userID)
	if err != nil {
		h.writeError(c, err, "Failed to load ban history")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bans": history})
}

// Status answers whether the user is covered by an active ban at the
// requested scope, broader bans included.
func (h *Handler) Status(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	scope := domain.BanScope(c.Query("scope"))
	var orgID, roleID *int64
	if v := c.Query("organization_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
			return
		}
		orgID = &id
	}
	if v := c.Query("role_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid role id")
			return
		}
		roleID = &id
	}

	banned, err := h.service.IsBannedInScope(c.Request.Context(), userID, scope, orgID, roleID)
	if err != nil {
		h.writeError(c, err, "Failed to check ban status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"banned": banned})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BAN_CONFLICT", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
