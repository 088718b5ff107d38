package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mavina/internal/domain"
	"mavina/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Hub, *jwt.Service, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	tokens := jwt.New("test-secret", time.Hour)
	r := gin.New()
	NewHandler(hub, tokens, nil).RegisterRoutes(r.Group("/api/v1"))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, tokens, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/appointments"
	if token != "" {
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestStream_RejectsMissingToken(t *testing.T) {
	_, _, srv := newTestServer(t)

	_, resp, err := dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, srv, "garbage")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPublishStatusChange_ReachesBothParties(t *testing.T) {
	hub, tokens, srv := newTestServer(t)

	customerTok, err := tokens.GenerateToken(7, "customer")
	require.NoError(t, err)
	providerTok, err := tokens.GenerateToken(20, "provider")
	require.NoError(t, err)

	customerConn, _, err := dial(t, srv, customerTok)
	require.NoError(t, err)
	defer customerConn.Close()
	providerConn, _, err := dial(t, srv, providerTok)
	require.NoError(t, err)
	defer providerConn.Close()

	require.Eventually(t, func() bool {
		return hub.IsOnline(7) && hub.IsOnline(20)
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishStatusChange(&domain.Appointment{
		ID:             1,
		CustomerID:     7,
		ProviderUserID: 20,
		Status:         domain.StatusConfirmed,
		SlotDate:       "2026-10-20",
		SlotTime:       "11:00",
	}, domain.StatusPendingApproval)

	for _, conn := range []*websocket.Conn{customerConn, providerConn} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev StatusChanged
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, TypeStatusChanged, ev.Type)
		assert.Equal(t, int64(1), ev.AppointmentID)
		assert.Equal(t, domain.StatusConfirmed, ev.Status)
		assert.Equal(t, "Onaylandı", ev.StatusLabel)
		assert.Equal(t, domain.StatusPendingApproval, ev.PreviousStatus)
	}
}

func TestHub_NewConnectionReplacesOld(t *testing.T) {
	hub, tokens, srv := newTestServer(t)
	tok, err := tokens.GenerateToken(7, "customer")
	require.NoError(t, err)

	first, _, err := dial(t, srv, tok)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return hub.IsOnline(7) }, 2*time.Second, 10*time.Millisecond)

	second, _, err := dial(t, srv, tok)
	require.NoError(t, err)
	defer second.Close()

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = first.ReadMessage()
	assert.Error(t, err)

	assert.Equal(t, 1, hub.GetOnlineCount())
	assert.False(t, hub.SendToUser(99, "nobody"))
}
