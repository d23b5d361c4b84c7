package organization

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.POST("/organizations", middleware.SuperAdminOnly(), h.CreateOrganization)
	rg.GET("/organizations", h.ListOrganizations)
	rg.GET("/organizations/:id", h.GetOrganization)
	rg.POST("/organizations/:id/locations", h.CreateLocation)
	rg.GET("/organizations/:id/locations", h.Locations)
	rg.POST("/organizations/:id/items", h.AddItem)
	rg.POST("/organizations/:id/roles", h.AssignRole)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	org, err := h.service.CreateOrganization(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err, "Failed to create organization")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"organization": org})
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orgs, err := h.service.ListOrganizations(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err, "Failed to list organizations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"organizations": orgs})
}

func (h *Handler) GetOrganization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	org, err := h.service.GetOrganization(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load organization")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"organization": org})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	loc, err := h.service.CreateLocation(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err, "Failed to create location")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"location": loc})
}

func (h *Handler) Locations(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	locs, err := h.service.Locations(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to list locations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"locations": locs})
}

func (h *Handler) AddItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	item, err := h.service.AddItem(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err, "Failed to add item")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) AssignRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	grant, err := h.service.AssignRole(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err, "Failed to assign role")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"grant": grant})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
