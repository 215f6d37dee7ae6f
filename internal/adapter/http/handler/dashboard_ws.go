package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/metrics"
	wsHub "github.com/ironslayer/parking-management-system/pkg/wsHub"
)

// Dashboard upgrades admin connections to WebSocket and registers them on
// the hub that receives session lifecycle broadcasts.
type Dashboard struct {
	hub      *wsHub.ConnectionHub
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewDashboard(hub *wsHub.ConnectionHub, l logger.Logger) *Dashboard {
	return &Dashboard{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		l: l,
	}
}

// HandleWebSocket godoc
// @Summary      Live dashboard feed
// @Description  Streams session lifecycle events to connected dashboards
// @Tags         Admin
// @Router       /ws/dashboard [get]
func (h *Dashboard) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dashboard_ws_connect")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}
	if !user.Role.AtLeast(types.RoleOperator) {
		errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(ctx, "failed to upgrade connection", err)
		return
	}

	// One hub slot per client; a reconnect replaces the old entry.
	connID := uuid.New()
	wsConn := wsHub.NewConn(r.Context(), connID, conn)
	if err := h.hub.Add(wsConn); err != nil {
		h.l.Error(ctx, "failed to register dashboard connection", err)
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(types.ServiceName).Inc()
	h.l.Info(ctx, "dashboard connected", "conn_id", connID, "user_id", user.ID)

	go func() {
		defer func() {
			_ = h.hub.Delete(connID)
			metrics.WebSocketConnectionsGauge.WithLabelValues(types.ServiceName).Dec()
			h.l.Info(ctx, "dashboard disconnected", "conn_id", connID)
		}()

		// The feed is one-way; reads only detect the peer going away.
		_ = wsConn.Listen(func(any) error { return nil })
	}()
}
