package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/metrics"
	"github.com/ironslayer/parking-management-system/pkg/rabbit"
)

const (
	SessionExchange = "parking_topic"
)

// SessionBroker publishes parking session lifecycle events to the
// 'parking_topic' exchange with keys session.{started,completed,cancelled}.
type SessionBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewSessionBroker(client *rabbit.RabbitMQ, log logger.Logger) *SessionBroker {
	return &SessionBroker{
		client:   client,
		exchange: SessionExchange,

		l: log,
	}
}

func (b *SessionBroker) PublishSessionStarted(ctx context.Context, msg models.SessionEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_session_started")
	return b.publish(ctx, "session.started", msg)
}

func (b *SessionBroker) PublishSessionCompleted(ctx context.Context, msg models.SessionEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_session_completed")
	return b.publish(ctx, "session.completed", msg)
}

func (b *SessionBroker) PublishSessionCancelled(ctx context.Context, msg models.SessionEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_session_cancelled")
	return b.publish(ctx, "session.cancelled", msg)
}

func (b *SessionBroker) publish(ctx context.Context, key string, msg models.SessionEventMessage) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	pubErr := retry(5, time.Second, func() error {
		if err := b.client.Channel.PublishWithContext(
			ctx,
			b.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: msg.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		); err != nil {
			return fmt.Errorf("failed to publish with context: %w", err)
		}

		return nil
	})

	metrics.RecordRabbitMQPublish(types.ServiceName, key, pubErr)

	if pubErr != nil {
		return wrap.Error(ctx, pubErr)
	}

	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
