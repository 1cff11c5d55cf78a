package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published to the account lifecycle topic.
const (
	TypeUserRegistered = "user.registered"
	TypeOTPSent        = "otp.sent"
	TypeProfileSaved   = "profile.saved"
)

// Event is the envelope written to Kafka.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	Role       string    `json:"role,omitempty"`
	At         time.Time `json:"at"`
}

// Producer publishes account lifecycle events. A nil Producer is valid and
// drops everything, so event publishing stays optional wiring.
type Producer struct {
	writer *kafkago.Writer
	log    *zap.Logger
}

// NewProducer builds a producer for the given brokers and topic. Returns
// nil when no brokers are configured.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
	}
	return &Producer{writer: w, log: log}
}

// Publish writes an event, best effort. Failures are logged and never
// affect the request that triggered them.
func (p *Producer) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("marshal event", zap.Error(err))
		return
	}
	msg := kafkago.Message{Key: []byte(ev.Type), Value: b, Time: ev.At}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("publish event", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
