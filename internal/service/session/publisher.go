package session

import (
	"context"
	"errors"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

// MultiPublisher fans a lifecycle event out to several publishers, typically
// the message broker and the dashboard feed. Every publisher is attempted;
// errors are joined.
type MultiPublisher struct {
	publishers []EventPublisher
}

func NewMultiPublisher(publishers ...EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) PublishSessionStarted(ctx context.Context, msg models.SessionEventMessage) error {
	return m.each(func(p EventPublisher) error { return p.PublishSessionStarted(ctx, msg) })
}

func (m *MultiPublisher) PublishSessionCompleted(ctx context.Context, msg models.SessionEventMessage) error {
	return m.each(func(p EventPublisher) error { return p.PublishSessionCompleted(ctx, msg) })
}

func (m *MultiPublisher) PublishSessionCancelled(ctx context.Context, msg models.SessionEventMessage) error {
	return m.each(func(p EventPublisher) error { return p.PublishSessionCancelled(ctx, msg) })
}

func (m *MultiPublisher) each(fn func(EventPublisher) error) error {
	var errs []error
	for _, p := range m.publishers {
		if p == nil {
			continue
		}
		if err := fn(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
