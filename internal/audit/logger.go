package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go-hris-admin/internal/shared/contextutil"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Logger records audit entries. Implementations never fail the caller's
// operation; delivery problems are logged.
type Logger interface {
	Log(ctx context.Context, entry Entry)
}

// complete fills request id, operator and timestamp from ctx when unset.
func complete(ctx context.Context, entry Entry) Entry {
	meta := contextutil.ExtractMetadata(ctx)
	if entry.RequestID == "" {
		entry.RequestID = meta.RequestID
	}
	if entry.Operator == "" {
		entry.Operator = meta.Operator
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	return entry
}

type Nop struct{}

func (Nop) Log(context.Context, Entry) {}

type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutLogger{logger: l}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	entry = complete(ctx, entry)
	l.logger.Info("audit event",
		zap.String("timestamp", entry.OccurredAt.Format(time.RFC3339)),
		zap.String("event_type", entry.EventType),
		zap.Int64("entity_id", entry.EntityID),
		zap.String("operator", entry.Operator),
		zap.String("request_id", entry.RequestID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaLogger struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaLogger(writer MessageWriter, topic string, logger ...*zap.Logger) *KafkaLogger {
	l := zap.L().Named("audit.kafka")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.kafka")
	}
	if topic == "" {
		topic = Topic
	}
	return &KafkaLogger{writer: writer, topic: topic, timeout: 5 * time.Second, logger: l}
}

// Log publishes the entry keyed by "<entity>:<id>". It detaches from ctx
// cancellation so an entry for a completed mutation is still written.
func (l *KafkaLogger) Log(ctx context.Context, entry Entry) {
	entry = complete(ctx, entry)

	payload, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("failed to encode audit entry", zap.Error(err))
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	err = l.writer.WriteMessages(wctx, kafka.Message{
		Topic: l.topic,
		Key:   []byte(entry.Entity + ":" + strconv.FormatInt(entry.EntityID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(entry.EventType)},
			{Key: "entity", Value: []byte(entry.Entity)},
		},
	})
	if err != nil {
		l.logger.Warn("failed to publish audit entry",
			zap.String("event_type", entry.EventType),
			zap.Int64("entity_id", entry.EntityID),
			zap.Error(err),
		)
	}
}
