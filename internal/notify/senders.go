package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/GlebRadaev/investadmin/pkg/clients"
)

//go:generate mockgen -source=senders.go -destination=mock_senders.go -package=notify

// LogSender writes events to the service log. It is always configured so a deployment
// without a broker still leaves a trace of every notification.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(_ context.Context, event Event) error {
	zap.L().Info("user notification",
		zap.String("eventID", event.ID.String()),
		zap.Int64("userID", event.UserID),
		zap.String("kind", string(event.Kind)),
		zap.Any("payload", event.Payload))
	return nil
}

type WebhookSender struct {
	url    string
	client clients.HTTPClientI
}

func NewWebhookSender(url string, client clients.HTTPClientI) *WebhookSender {
	return &WebhookSender{url: url, client: client}
}

func (s *WebhookSender) Name() string { return "webhook" }

func (s *WebhookSender) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Event-Kind", string(event.Kind))
	headers.Set("X-Event-ID", event.ID.String())

	status, _, err := s.client.Post(ctx, s.url, headers, body)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}
	return nil
}

type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSender appends events to a Redis stream.
type RedisSender struct {
	client StreamAdder
	stream string
}

func NewRedisSender(client StreamAdder, stream string) *RedisSender {
	return &RedisSender{client: client, stream: stream}
}

func (s *RedisSender) Name() string { return "redis" }

func (s *RedisSender) Send(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":     event.ID.String(),
			"kind":   string(event.Kind),
			"userId": strconv.FormatInt(event.UserID, 10),
			"data":   string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to redis stream %s: %w", s.stream, err)
	}
	return nil
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSender publishes events keyed by user so one user's events stay ordered within a
// partition.
type KafkaSender struct {
	writer MessageWriter
}

func NewKafkaSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{writer: writer}
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}
}

func (s *KafkaSender) Name() string { return "kafka" }

func (s *KafkaSender) Send(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-kind", Value: []byte(event.Kind)},
			{Key: "event-id", Value: []byte(event.ID.String())},
		},
	})
}
