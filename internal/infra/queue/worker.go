package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/agentflow/agentflow-api/internal/logger"
)

// InboundProcessor runs the conversation pipeline for one message: persist,
// session lookup, analysis, reply.
type InboundProcessor interface {
	ProcessInbound(ctx context.Context, task InboundTask) error
}

// Worker consumes inbound tasks. Failures are terminal by policy: the
// delivery is rejected without requeue (it dead-letters) and the error is
// logged; there is no retry and nothing surfaces to the original webhook
// request.
type Worker struct {
	Channel   *amqp.Channel
	Processor InboundProcessor
	log       *logger.Logger
}

func NewWorker(ch *amqp.Channel, processor InboundProcessor, log *logger.Logger) *Worker {
	return &Worker{Channel: ch, Processor: processor, log: log.Child("queue:worker", nil)}
}

func (w *Worker) Start(queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	w.log.Info("worker consuming", map[string]any{"queue": queueName})

	for d := range msgs {
		var task InboundTask
		if err := json.Unmarshal(d.Body, &task); err != nil {
			w.log.Error("malformed task payload, dead-lettering", err)
			d.Nack(false, false)
			continue
		}

		if err := w.Processor.ProcessInbound(context.Background(), task); err != nil {
			w.log.Error("inbound processing failed", err, map[string]any{
				"from":        task.From,
				"provider_id": task.ProviderID,
			})
			d.Nack(false, false)
			continue
		}

		d.Ack(false)
	}
	return nil
}
