package apperr

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	json "github.com/goccy/go-json"
)

// KafkaSink publishes error events to a Kafka topic, keyed by kind
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSink connects a synchronous producer to the brokers
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}
	return NewKafkaSinkWithProducer(producer, topic), nil
}

func NewKafkaSinkWithProducer(p sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Send(_ context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal error event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(ev.Kind),
		Value: sarama.ByteEncoder(body),
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send to kafka topic %q: %w", s.topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error { return s.producer.Close() }
