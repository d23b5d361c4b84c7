package inventory

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
	rg.GET("/items/:id/availability", h.GetAvailability)
	rg.GET("/items/:id", h.GetItem)
	rg.GET("/organizations/:orgId/items", h.ListItems)
	rg.PUT("/items/:id/quantity", h.SetOwnedQuantity)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	start, err := domain.ParseDate(c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start date")
		return
	}
	end, err := domain.ParseDate(c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end date")
		return
	}

	avail, err := h.service.AvailableQuantity(c.Request.Context(), id, start, end)
	if err != nil {
		h.writeError(c, err, "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"org_item_id": id,
		"start":       start.Format("2006-01-02"),
		"end":         end.Format("2006-01-02"),
		"available":   avail,
	})
}

func (h *Handler) GetItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load item")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) ListItems(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Param("orgId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization id")
		return
	}

	items, err := h.service.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		h.writeError(c, err, "Failed to list items")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) SetOwnedQuantity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)

	item, err := h.service.SetOwnedQuantity(c.Request.Context(), actor, id, req.Quantity)
	if err != nil {
		h.writeError(c, err, "Failed to update quantity")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "QUANTITY_CONFLICT", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
