package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// EventProducer publishes activity events (post.created, member.joined,
// ...) keyed by community so consumers see per-community ordering.
type EventProducer struct {
	writer *kafka.Writer
	topic  string
}

type Event struct {
	Kind        string    `json:"kind"`
	CommunityID uint64    `json:"community_id"`
	ActorID     uint64    `json:"actor_id"`
	SubjectID   uint64    `json:"subject_id,omitempty"`
	At          time.Time `json:"at"`
}

func NewEventProducer(cfg KafkaConfig) (*EventProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &EventProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *EventProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish is best-effort at call sites: services log failures and move on.
func (p *EventProducer) Publish(ctx context.Context, ev Event) error {
	if p == nil || p.writer == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", ev.CommunityID)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}
