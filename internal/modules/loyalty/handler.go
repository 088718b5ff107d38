package loyalty

import (
	"net/http"

	"mavina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/badges", h.ListBadges)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/badges/me", h.GetMyBadge)
}

func (h *Handler) ListBadges(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"badges": Catalog()})
}

func (h *Handler) GetMyBadge(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	st, err := h.service.MonthlyStatus(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load badge")
		return
	}
	response.Success(c, http.StatusOK, st)
}
