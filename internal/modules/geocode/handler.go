package geocode

import (
	"errors"
	"net/http"
	"strconv"

	"mavina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/geocode/reverse", h.Reverse)
}

func (h *Handler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lng query parameters are required")
		return
	}

	res, err := h.resolver.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, ErrInvalidCoordinates) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Reverse geocoding failed")
		return
	}
	response.Success(c, http.StatusOK, res)
}
