package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"pulsechat/internal/model"
	"pulsechat/internal/repository"
)

// MessageArchiveWorker consumes created-message events and writes the durable
// archive copy. With the in-memory engine this is the only persistent record
// of the feed; with a database engine it is an idempotent second copy.
type MessageArchiveWorker struct {
	conn      *amqp.Connection
	archive   *repository.ArchiveRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMessageArchiveWorker(conn *amqp.Connection, archive *repository.ArchiveRepository, queueName string) *MessageArchiveWorker {
	return &MessageArchiveWorker{
		conn:      conn,
		archive:   archive,
		queueName: queueName,
	}
}

func (w *MessageArchiveWorker) Start(ctx context.Context) error {
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

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
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

				var msg model.Message
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("worker decode event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				entry := &model.MessageArchive{
					MessageID: msg.ID,
					Username:  msg.Username,
					Text:      msg.Text,
					Timestamp: msg.Timestamp,
				}
				if err := w.archive.Create(workerCtx, entry); err != nil {
					log.Printf("worker archive message failed: %v", err)
					_ = d.Nack(false, true)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *MessageArchiveWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
