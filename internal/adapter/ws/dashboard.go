package ws

import (
	"context"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	wsHub "github.com/ironslayer/parking-management-system/pkg/wsHub"
)

// DashboardFeed pushes session lifecycle events to every connected dashboard
// over the shared websocket hub.
type DashboardFeed struct {
	hub *wsHub.ConnectionHub
	l   logger.Logger
}

func NewDashboardFeed(hub *wsHub.ConnectionHub, log logger.Logger) *DashboardFeed {
	return &DashboardFeed{hub: hub, l: log}
}

func (f *DashboardFeed) PublishSessionStarted(ctx context.Context, msg models.SessionEventMessage) error {
	return f.broadcast(ctx, "session.started", msg)
}

func (f *DashboardFeed) PublishSessionCompleted(ctx context.Context, msg models.SessionEventMessage) error {
	return f.broadcast(ctx, "session.completed", msg)
}

func (f *DashboardFeed) PublishSessionCancelled(ctx context.Context, msg models.SessionEventMessage) error {
	return f.broadcast(ctx, "session.cancelled", msg)
}

func (f *DashboardFeed) broadcast(ctx context.Context, event string, msg models.SessionEventMessage) error {
	ctx = wrap.WithAction(ctx, "ws_dashboard_broadcast")

	f.hub.Broadcast(map[string]any{
		"event": event,
		"data":  msg,
	})

	f.l.Debug(ctx, "dashboard event broadcast", "event", event, "session_id", msg.SessionID)

	return nil
}
