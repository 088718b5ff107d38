package appointment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mavina/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(h *Handler, actor Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", actor.UserID)
		c.Set("role", string(actor.Role))
		c.Next()
	})
	h.RegisterRoutes(api)
	return r
}

func TestHandler_Cancel_EmptyBody(t *testing.T) {
	tests := []struct {
		name    string
		chunked bool
	}{
		{name: "no content length"},
		{name: "chunked", chunked: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusPendingApproval), nil)
			f.repo.On("CancelAndRelease", mock.Anything, mock.Anything, domain.StatusPendingApproval).Return(nil)
			r := newTestRouter(NewHandler(f.svc), customer)

			req := httptest.NewRequest(http.MethodPost, "/appointments/1/cancel", strings.NewReader(""))
			if tt.chunked {
				req.ContentLength = -1
				req.TransferEncoding = []string{"chunked"}
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			f.repo.AssertCalled(t, "CancelAndRelease", mock.Anything, mock.Anything, domain.StatusPendingApproval)
		})
	}
}

func TestHandler_Cancel_MalformedBody(t *testing.T) {
	f := newFixture()
	r := newTestRouter(NewHandler(f.svc), customer)

	req := httptest.NewRequest(http.MethodPost, "/appointments/1/cancel", strings.NewReader(`{"reason":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
