package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Message is a transient notification (toast).
type Message struct {
	Severity Severity
	Summary  string
	Detail   string
}

type Notifier interface {
	Notify(msg Message)
}

func Success(n Notifier, detail string) {
	n.Notify(Message{Severity: SeveritySuccess, Summary: "Success", Detail: detail})
}

func Error(n Notifier, detail string) {
	n.Notify(Message{Severity: SeverityError, Summary: "Error", Detail: detail})
}

func Warn(n Notifier, detail string) {
	n.Notify(Message{Severity: SeverityWarn, Summary: "Warning", Detail: detail})
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notify")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(msg Message) {
	fields := []zap.Field{zap.String("summary", msg.Summary), zap.String("detail", msg.Detail)}
	switch msg.Severity {
	case SeverityError:
		n.logger.Error("notification", fields...)
	case SeverityWarn:
		n.logger.Warn("notification", fields...)
	default:
		n.logger.Info("notification", fields...)
	}
}

// WriterNotifier prints one line per notification, e.g. "[error] Error: Failed to load departments".
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(msg Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s: %s\n", msg.Severity, msg.Summary, msg.Detail)
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Notify(msg Message) {
	for _, n := range m {
		n.Notify(msg)
	}
}
