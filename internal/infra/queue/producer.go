package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InboundTask is one webhook message handed to the background pipeline. The
// webhook handler acknowledges the provider before (and regardless of)
// publishing; processing is fully detached from the request.
type InboundTask struct {
	ProviderID string `json:"provider_id"`
	From       string `json:"from"`
	Body       string `json:"body"`
	ReceivedAt string `json:"received_at"`
}

type ProducerInterface interface {
	PublishInbound(ctx context.Context, task InboundTask) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishInbound(ctx context.Context, task InboundTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode inbound task: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish inbound task: %w", err)
	}
	return nil
}
