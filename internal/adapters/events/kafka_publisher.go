package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig carries the broker list and delivery tuning for cart events.
// RequiredAcks accepts "all", "one" or "none"; empty means "all".
type KafkaConfig struct {
	Brokers      []string
	TopicByEvent map[string]string
	RequiredAcks string
	WriteTimeout time.Duration
}

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	acks, err := requiredAcksFor(cfg.RequiredAcks)
	if err != nil {
		return nil, err
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			RequiredAcks: acks,
			// Hash on the partition key so one user's cart events stay
			// ordered within a partition.
			Balancer:     &kafka.Hash{},
			WriteTimeout: timeout,
		},
		topicByEvent: cfg.TopicByEvent,
	}, nil
}

func requiredAcksFor(v string) (kafka.RequiredAcks, error) {
	switch v {
	case "", "all":
		return kafka.RequireAll, nil
	case "one":
		return kafka.RequireOne, nil
	case "none":
		return kafka.RequireNone, nil
	default:
		return 0, fmt.Errorf("unknown kafka required acks %q", v)
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	topic := eventType
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		topic = mapped
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
