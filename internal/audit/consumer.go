package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consume feeds audit entries from reader to handle until ctx is done.
// Undecodable messages are committed and skipped. A message whose handler
// fails is left uncommitted so the group sees it again.
func Consume(ctx context.Context, reader MessageReader, handle func(Entry) error, logger *zap.Logger) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("audit.consumer")
	log.Info("audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit consumer stopped")
				return
			}
			log.Error("fetch audit message failed", zap.Error(err))
			continue
		}

		var entry Entry
		if err := json.Unmarshal(msg.Value, &entry); err != nil {
			log.Error("decode audit entry failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handle(entry); err != nil {
			log.Error("handle audit entry failed",
				zap.String("event_type", entry.EventType),
				zap.Int64("entity_id", entry.EntityID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit message failed", zap.Error(err))
		}
	}
}
