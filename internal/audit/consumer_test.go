package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-hris-admin/internal/audit"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves msgs in order and then cancels the consumer.
type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func entryMessage(t *testing.T, offset int64, e audit.Entry) kafka.Message {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func TestConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			entryMessage(t, 1, audit.NewEntry("department", 7, audit.ActionDelete, "Department deleted successfully")),
			{Offset: 2, Value: []byte("not json")},
			entryMessage(t, 3, audit.NewEntry("employee", 5, audit.ActionCreate, "")),
		},
	}

	var seen []string
	audit.Consume(ctx, reader, func(e audit.Entry) error {
		seen = append(seen, e.EventType)
		if e.Entity == "employee" {
			return errors.New("sink unavailable")
		}
		return nil
	}, zap.NewNop())

	assert.Equal(t, []string{"department.delete", "employee.create"}, seen)
	assert.Equal(t, []int64{1, 2}, reader.committed, "failed entries stay uncommitted")
}
