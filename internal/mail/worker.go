package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes queued mail and delivers it through a Sender.
type Worker struct {
	conn      *amqp.Connection
	sender    Sender
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(conn *amqp.Connection, sender Sender, queueName string) *Worker {
	return &Worker{
		conn:      conn,
		sender:    sender,
		queueName: queueName,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

// handle delivers one message. Undecodable or undeliverable messages are
// dropped rather than requeued.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.Error("mail worker decode failed", slog.Any("error", err))
		_ = d.Nack(false, false)
		return
	}

	if err := w.sender.Send(ctx, msg); err != nil {
		slog.Error("mail worker delivery failed",
			slog.String("mail_id", msg.ID),
			slog.String("template", msg.Template),
			slog.Any("error", err),
		)
		_ = d.Nack(false, false)
		return
	}

	slog.Info("mail delivered", slog.String("mail_id", msg.ID), slog.String("template", msg.Template))
	_ = d.Ack(false)
}

func (w *Worker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
