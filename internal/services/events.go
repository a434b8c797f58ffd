package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const EventOnboardingCompleted = "onboarding.completed"

type OnboardingCompletedEvent struct {
	UserID           uint      `json:"user_id"`
	Track            string    `json:"track"`
	ProfessionalType string    `json:"professional_type,omitempty"`
	OrganizationID   *uint     `json:"organization_id,omitempty"`
	HealthFields     []string  `json:"health_fields,omitempty"`
	PatientPublicID  string    `json:"patient_public_id,omitempty"`
	CompletedAt      time.Time `json:"completed_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// LogPublisher writes events to the application log when no broker is
// configured.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (publisher *LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	publisher.logger.Info().
		Str("routing_key", routingKey).
		RawJSON("payload", body).
		Msg("event")
	return nil
}

type AMQPPublisher struct {
	connection *amqp.Connection
	exchange   string
	logger     zerolog.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

func DialAMQPPublisher(url string, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	publisher := &AMQPPublisher{
		connection: connection,
		exchange:   exchange,
		logger:     logger.With().Str("component", "amqp").Logger(),
	}
	channel, err := publisher.openChannel()
	if err != nil {
		_ = connection.Close()
		return nil, err
	}
	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return publisher, nil
}

// openChannel reuses the current channel until the broker closes it.
func (publisher *AMQPPublisher) openChannel() (*amqp.Channel, error) {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.channel != nil && !publisher.channel.IsClosed() {
		return publisher.channel, nil
	}
	channel, err := publisher.connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	publisher.channel = channel
	publisher.logger.Debug().Msg("publisher channel opened")
	return channel, nil
}

func (publisher *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	channel, err := publisher.openChannel()
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx, publisher.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (publisher *AMQPPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if publisher.channel != nil {
		_ = publisher.channel.Close()
	}
	return publisher.connection.Close()
}
