package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"climatework_backend/internal/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// Producer publishes user lifecycle events (welcome, onboarding-complete)
// for downstream consumers such as the notification service.
type Producer struct {
	writer *kafka.Writer
}

// UserEvent is the wire format for user lifecycle messages.
type UserEvent struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	UserType  string    `json:"user_type"`
	At        time.Time `json:"at"`
}

// NewProducer connects to the given broker. Username and password are
// optional; when empty the writer authenticates anonymously without TLS.
func NewProducer(broker, topic, username, password string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}

	if username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: username,
				Password: password,
			},
			TLS: &tls.Config{},
		}
	}

	return &Producer{writer: writer}
}

// PublishUserEvent sends a lifecycle event. A nil producer or writer skips
// the publish so callers on the request path never fail on a missing broker.
func (p *Producer) PublishUserEvent(event UserEvent) error {
	if p == nil || p.writer == nil {
		logger.Debug("kafka producer not configured, skipping publish")
		return nil
	}

	if event.At.IsZero() {
		event.At = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.At,
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
