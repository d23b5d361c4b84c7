package booking

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
	rg.POST("/orders", h.CreateOrder)
	rg.GET("/orders/:id", h.GetOrder)
	rg.GET("/orders", h.ListMyOrders)
	rg.POST("/items/:id/transition", h.TransitionItem)
	rg.POST("/orders/:id/transition", h.TransitionOrder)
	rg.POST("/orders/:id/payment-events", h.ApplyPaymentEvent)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.service.CreateOrder(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err, "Failed to create order")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.service.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		h.writeError(c, err, "Failed to load order")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	actor := middleware.ActorFromContext(c)
	orders, err := h.service.ListMyOrders(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		h.writeError(c, err, "Failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) TransitionItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item id")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	item, err := h.service.TransitionItem(c.Request.Context(), actor, id, domain.BookingStatus(req.Status))
	if err != nil {
		h.writeError(c, err, "Failed to update status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) TransitionOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.service.TransitionOrder(c.Request.Context(), actor, id, domain.BookingStatus(req.Status))
	if err != nil {
		h.writeError(c, err, "Failed to update status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) ApplyPaymentEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var req PaymentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	order, err := h.service.ApplyPaymentEvent(c.Request.Context(), actor, id, req.Event)
	if err != nil {
		h.writeError(c, err, "Failed to apply payment event")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
