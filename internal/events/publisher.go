package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Publisher emits a human-readable feed of round events to a Kafka topic,
// keyed by room code. It is best-effort everywhere: a nil Publisher or an
// unreachable broker never affects game handling.
type Publisher struct {
	writer *kafka.Writer
}

// New returns nil when no broker is configured; a nil Publisher is valid and
// drops everything.
func New(broker, topic string) *Publisher {
	if broker == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			BatchSize:              1,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Publisher) Publish(roomCode, text string) {
	if p == nil || p.writer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(roomCode),
		Value: []byte(text),
	})
	if err != nil {
		log.Debug().Err(err).Str("room", roomCode).Msg("event publish failed")
	}
}

func (p *Publisher) Close() {
	if p == nil || p.writer == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		log.Debug().Err(err).Msg("event writer close failed")
	}
}
