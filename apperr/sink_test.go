package apperr

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaSink_Send(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Kind != KindServer || ev.Status != 503 {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	sink := NewKafkaSinkWithProducer(producer, "client-errors")
	require.NoError(t, sink.Send(context.Background(), NewEvent(FromStatus(503, ""))))
	require.NoError(t, sink.Close())
}

func TestKafkaSink_SendFails(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSinkWithProducer(producer, "client-errors")
	err := sink.Send(context.Background(), NewEvent(FromStatus(500, "")))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	_ = sink.Close()
}

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPSink_Send(t *testing.T) {
	pub := &fakePublisher{}
	sink := &AMQPSink{ch: pub, exchange: "client_errors"}

	require.NoError(t, sink.Send(context.Background(), NewEvent(FromStatus(403, "admins only"))))
	assert.Equal(t, "client_errors", pub.exchange)
	assert.Equal(t, "authorization", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var ev Event
	require.NoError(t, json.Unmarshal(pub.msg.Body, &ev))
	assert.Equal(t, "admins only", ev.Message)
}
