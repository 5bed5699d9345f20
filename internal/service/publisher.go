package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/lorenzaCara/enjoypark/internal/queue"
)

// AMQPPublisher publishes activity events to RabbitMQ.  Each publish opens
// its own connection; traffic is one message per visitor action.  Errors
// are logged and returned so the caller can choose to ignore them.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishPlannerSaved publishes to the planner.saved queue.
func (p *AMQPPublisher) PublishPlannerSaved(ctx context.Context, ev queue.PlannerSavedEvent) error {
	return p.publish(ctx, queue.PlannerSavedQueue, ev)
}

// PublishServiceBooked publishes to the service.booked queue.
func (p *AMQPPublisher) PublishServiceBooked(ctx context.Context, ev queue.ServiceBookedEvent) error {
	return p.publish(ctx, queue.ServiceBookedQueue, ev)
}

func (p *AMQPPublisher) publish(ctx context.Context, name string, event any) error {
	logger := log.With().Str("component", "rabbitmq").Str("queue", name).Logger()

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Error().Err(err).Msg("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		logger.Error().Err(err).Msg("queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		name,  // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		logger.Error().Err(err).Msg("publish failed")
		return err
	}
	return nil
}
