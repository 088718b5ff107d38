package appointment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"mavina/internal/domain"
	"mavina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/appointments")
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/:id/approve", h.Approve)
		g.POST("/:id/start", h.Start)
		g.POST("/:id/complete", h.Complete)
		g.POST("/:id/cancel", h.Cancel)
		g.POST("/:id/reschedule", h.Reschedule)
	}
}

func actorFrom(c *gin.Context) (Actor, bool) {
	a := Actor{
		UserID: c.GetInt64("user_id"),
		Role:   domain.UserRole(c.GetString("role")),
	}
	if a.UserID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return a, false
	}
	return a, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"appointment": a})
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.List(c.Request.Context(), actor, c.Query("status"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Approve(c *gin.Context) {
	h.simpleTransition(c, h.service.Approve)
}

func (h *Handler) Start(c *gin.Context) {
	h.simpleTransition(c, h.service.Start)
}

func (h *Handler) simpleTransition(c *gin.Context, op func(ctx context.Context, actor Actor, id int64) (*domain.Appointment, error)) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Complete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	a, err := h.service.Complete(c.Request.Context(), actor, id, req.Photos)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CancelRequest
	// empty body is a cancellation without reason, whatever its framing
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	a, err := h.service.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Reschedule(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	a, err := h.service.Reschedule(c.Request.Context(), actor, id, req.Date, req.Time)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var photosErr *MissingPhotosError
	switch {
	case errors.As(err, &photosErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "MISSING_PHOTOS", "Front, back, left and right photos are required", gin.H{"missing": photosErr.Missing})
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "Selected time is no longer available")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
