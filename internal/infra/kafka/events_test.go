package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"go.uber.org/zap/zaptest"

	"github.com/enuda-labs/summit-BE/internal/core/domain"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
)

func newTestPublisher(t *testing.T) (*EventPublisher, *mocks.AsyncProducer) {
	t.Helper()

	async := mocks.NewAsyncProducer(t, sarama.NewConfig())
	producer := &Producer{
		producer: async,
		logger:   zaptest.NewLogger(t),
		cfg:      config.KafkaSettings{TopicPrefix: "summit"},
		errChan:  make(chan error, 1),
		done:     make(chan struct{}),
	}

	appCfg := config.AppSettings{Name: "summit-api", Env: "test"}
	return NewEventPublisher(producer, appCfg, zaptest.NewLogger(t)), async
}

func publishAndCapture(t *testing.T, ctx context.Context, publisher *EventPublisher, async *mocks.AsyncProducer) *sarama.ProducerMessage {
	t.Helper()

	captured := make(chan *sarama.ProducerMessage, 1)
	async.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		captured <- msg
		return nil
	})

	event := domain.UserRegisteredEvent{
		UserID:       "user-1",
		Username:     "climber",
		Email:        "climber@summit.guide",
		RegisteredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := publisher.PublishUserRegistered(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-captured:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("message never reached the producer")
		return nil
	}
}

type capturedEnvelope struct {
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id"`
	Metadata  map[string]string `json:"metadata"`
}

func decodeEnvelope(t *testing.T, msg *sarama.ProducerMessage) capturedEnvelope {
	t.Helper()

	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope capturedEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope
}

func TestEventPublisher_EnvelopeCarriesRequestID(t *testing.T) {
	publisher, async := newTestPublisher(t)

	ctx := context.WithValue(context.Background(), logger.RequestIDKey{}, "req-42")
	msg := publishAndCapture(t, ctx, publisher, async)

	if msg.Topic != "summit.user.registered" {
		t.Fatalf("unexpected topic %q", msg.Topic)
	}

	envelope := decodeEnvelope(t, msg)
	if envelope.EventType != "summit.user.registered" {
		t.Fatalf("unexpected event type %q", envelope.EventType)
	}
	if envelope.Metadata["request_id"] != "req-42" {
		t.Fatalf("expected request id req-42 in metadata, got %q", envelope.Metadata["request_id"])
	}
	if envelope.Metadata["service"] != "summit-api" {
		t.Fatalf("expected service name in metadata, got %q", envelope.Metadata["service"])
	}

	if err := async.Close(); err != nil {
		t.Fatalf("close producer: %v", err)
	}
}

func TestEventPublisher_NoRequestIDOmitsMetadataKey(t *testing.T) {
	publisher, async := newTestPublisher(t)

	msg := publishAndCapture(t, context.Background(), publisher, async)

	envelope := decodeEnvelope(t, msg)
	if _, ok := envelope.Metadata["request_id"]; ok {
		t.Fatalf("expected no request id without one on the context, got %q", envelope.Metadata["request_id"])
	}

	if err := async.Close(); err != nil {
		t.Fatalf("close producer: %v", err)
	}
}
