package schedule

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.GET("/providers/:id/slots", h.GetDaySlots)
}

func (h *Handler) GetDaySlots(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || providerID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = h.service.now().In(h.service.Location()).Format(dateLayout)
	}

	out, err := h.service.DaySlots(c.Request.Context(), providerID, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrProviderNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load slots")
		}
		return
	}

	response.Success(c, http.StatusOK, out)
}
