package provider

import (
	"errors"
	"net/http"
	"strconv"

	"mavina/internal/pkg/response"
	"mavina/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers", h.List)
	rg.GET("/providers/:id", h.Get)
	rg.GET("/providers/:id/working-hours", h.GetWorkingHours)
	rg.GET("/providers/:id/services", h.ListServices)
}

// RegisterSelfRoutes expects rg to be restricted to providers.
func (h *Handler) RegisterSelfRoutes(rg *gin.RouterGroup) {
	rg.PUT("/provider/working-hours", h.UpdateWorkingHours)
	rg.POST("/provider/services", h.CreateService)
	rg.DELETE("/provider/services/:serviceId", h.DeleteService)
}

func (h *Handler) List(c *gin.Context) {
	f := repository.ProviderFilters{City: c.Query("city"), Limit: 20}
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= 100 {
			f.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			f.Offset = (val - 1) * f.Limit
		}
	}

	providers, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"providers": providers,
		"pagination": gin.H{
			"page":        f.Offset/f.Limit + 1,
			"limit":       f.Limit,
			"total":       total,
			"total_pages": (int(total) + f.Limit - 1) / f.Limit,
		},
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"provider": p})
}

func (h *Handler) GetWorkingHours(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	wh, err := h.service.WorkingHours(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"working_hours": wh})
}

func (h *Handler) ListServices(c *gin.Context) {
	id, ok := providerID(c)
	if !ok {
		return
	}
	out, err := h.service.Services(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": out})
}

func (h *Handler) UpdateWorkingHours(c *gin.Context) {
	var req UpdateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	wh, err := h.service.UpdateWorkingHours(c.Request.Context(), c.GetInt64("user_id"), req.Hours)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"working_hours": wh})
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	so, err := h.service.AddService(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": so})
}

func (h *Handler) DeleteService(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}
	if err := h.service.RemoveService(c.Request.Context(), c.GetInt64("user_id"), serviceID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func providerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider not found")
	case errors.Is(err, ErrServiceNotExists):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	case errors.Is(err, ErrNotProvider):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Provider profile required")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
