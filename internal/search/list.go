package search

import (
	"context"
	"fmt"
	"strings"

	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/notify"

	"go.uber.org/zap"
)

// Mutator is the remote side of the list actions. Each call returns the
// server's message, which may be empty.
type Mutator[T any] interface {
	Delete(ctx context.Context, id int64) (string, error)
	Restore(ctx context.Context, id int64) (string, error)
	Update(ctx context.Context, id int64, item T) (T, string, error)
}

type ListConfig[F any, T Record[T]] struct {
	// Noun is the lower-case entity name used in prompts, e.g. "department".
	Noun      string
	State     *State[F, T]
	Remote    Mutator[T]
	Confirmer notify.Confirmer
	Notifier  notify.Notifier
	Audit     audit.Logger
}

// List dispatches confirmed row actions and keeps State in sync: delete and
// restore reload the page, a status toggle patches the row with the record
// the server returned.
type List[F any, T Record[T]] struct {
	noun     string
	state    *State[F, T]
	remote   Mutator[T]
	confirm  notify.Confirmer
	notifier notify.Notifier
	audit    audit.Logger
	logger   *zap.Logger
}

func NewList[F any, T Record[T]](cfg ListConfig[F, T], logger ...*zap.Logger) *List[F, T] {
	l := zap.L().Named("search.list")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("search.list")
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.Nop{}
	}
	return &List[F, T]{
		noun:     cfg.Noun,
		state:    cfg.State,
		remote:   cfg.Remote,
		confirm:  cfg.Confirmer,
		notifier: cfg.Notifier,
		audit:    cfg.Audit,
		logger:   l.With(zap.String("entity", cfg.Noun)),
	}
}

func (l *List[F, T]) State() *State[F, T] {
	return l.state
}

// Delete asks for confirmation, deletes and reloads. done is false when the
// operator declined.
func (l *List[F, T]) Delete(ctx context.Context, item T) (done bool, err error) {
	ok, err := l.ask(ctx, "Confirm Delete",
		fmt.Sprintf(`Are you sure you want to delete %s "%s"?`, l.noun, item.DisplayName()))
	if err != nil || !ok {
		return false, err
	}

	msg, err := l.remote.Delete(ctx, item.RecordID())
	if err != nil {
		return false, l.fail(err, "Failed to delete "+l.noun)
	}
	l.succeed(ctx, item.RecordID(), audit.ActionDelete, msg, l.title()+" deleted successfully")
	l.reload(ctx)
	return true, nil
}

// Restore undoes a soft delete and reloads.
func (l *List[F, T]) Restore(ctx context.Context, item T) (bool, error) {
	ok, err := l.ask(ctx, "Confirm Restore",
		fmt.Sprintf(`Are you sure you want to restore %s "%s"?`, l.noun, item.DisplayName()))
	if err != nil || !ok {
		return false, err
	}

	msg, err := l.remote.Restore(ctx, item.RecordID())
	if err != nil {
		return false, l.fail(err, "Failed to restore "+l.noun)
	}
	l.succeed(ctx, item.RecordID(), audit.ActionRestore, msg, l.title()+" restored successfully")
	l.reload(ctx)
	return true, nil
}

// ToggleStatus flips the active flag through an update and replaces the row
// with the server's record. The list is not reloaded.
func (l *List[F, T]) ToggleStatus(ctx context.Context, item T) (bool, error) {
	action, actionText := "activate", "Activate"
	if item.Active() {
		action, actionText = "deactivate", "Deactivate"
	}

	ok, err := l.ask(ctx, "Confirm "+actionText,
		fmt.Sprintf(`Are you sure you want to %s %s "%s"?`, action, l.noun, item.DisplayName()))
	if err != nil || !ok {
		return false, err
	}

	updated, msg, err := l.remote.Update(ctx, item.RecordID(), item.WithActive(!item.Active()))
	if err != nil {
		return false, l.fail(err, fmt.Sprintf("Failed to %s %s", action, l.noun))
	}
	if !l.state.Replace(updated) {
		l.logger.Debug("toggled row no longer shown", zap.Int64("id", item.RecordID()))
	}
	l.succeed(ctx, item.RecordID(), audit.ActionToggle, msg, fmt.Sprintf("%s %sd successfully", l.title(), actionText))
	return true, nil
}

// reload refreshes the page after a completed action. A failure is already
// reported by State; the action itself stays done.
func (l *List[F, T]) reload(ctx context.Context) {
	if err := l.state.Reload(ctx); err != nil {
		l.logger.Warn("reload after action failed", zap.Error(err))
	}
}

// Saved is the form success hook: reload the current page.
func (l *List[F, T]) Saved(ctx context.Context) error {
	return l.state.Reload(ctx)
}

func (l *List[F, T]) ask(ctx context.Context, header, message string) (bool, error) {
	ok, err := l.confirm.Confirm(ctx, notify.Prompt{Header: header, Message: message})
	if err != nil {
		return false, err
	}
	if !ok {
		l.logger.Debug("action declined", zap.String("prompt", header))
	}
	return ok, nil
}

func (l *List[F, T]) fail(err error, detail string) error {
	l.logger.Warn("list action failed", zap.String("detail", detail), zap.Error(err))
	notify.Error(l.notifier, detail)
	return err
}

func (l *List[F, T]) succeed(ctx context.Context, id int64, action, msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	notify.Success(l.notifier, msg)
	l.audit.Log(ctx, audit.NewEntry(l.noun, id, action, msg))
}

func (l *List[F, T]) title() string {
	if l.noun == "" {
		return ""
	}
	return strings.ToUpper(l.noun[:1]) + l.noun[1:]
}
