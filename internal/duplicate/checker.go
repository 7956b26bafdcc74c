package duplicate

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"go-hris-admin/internal/form"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultTimeout   = 5 * time.Second
	DefaultMinLength = 2
)

// LookupFunc reports whether value is already taken remotely.
type LookupFunc func(ctx context.Context, value string) (bool, error)

type Options struct {
	Debounce  time.Duration
	Timeout   time.Duration
	MinLength int
}

// State is a snapshot of the checker's observable flags.
type State struct {
	// Pending is true while a debounce timer is armed.
	Pending   bool
	Checking  bool
	Duplicate bool
}

// Checker attaches a debounced remote uniqueness check to one form field.
//
// Every Change re-arms the debounce timer; only the value present when it
// fires is looked up, and a value equal to the previously fired one is not
// looked up again. Each fired lookup gets a sequence number and cancels the
// one before it; a result is applied only if its sequence number is still
// the latest. Lookup errors and timeouts count as "not a duplicate".
type Checker struct {
	field     *form.Field
	lookup    LookupFunc
	debounce  time.Duration
	timeout   time.Duration
	minLength int
	logger    *zap.Logger
	flight    singleflight.Group

	root context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	seq       uint64
	timerGen  uint64
	timer     *time.Timer
	pending   string
	cancel    context.CancelFunc
	inflight  string
	lastFired string
	hasFired  bool
	checking  bool
	duplicate bool
	original  string
	editing   bool
	stopped   bool
	idle      chan struct{}
}

func NewChecker(field *form.Field, lookup LookupFunc, opts Options, logger ...*zap.Logger) *Checker {
	l := zap.L().Named("duplicate.checker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("duplicate.checker")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}

	root, stop := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	return &Checker{
		field:     field,
		lookup:    lookup,
		debounce:  opts.Debounce,
		timeout:   opts.Timeout,
		minLength: opts.MinLength,
		logger:    l.With(zap.String("field", field.Name())),
		root:      root,
		stop:      stop,
		idle:      idle,
	}
}

// Change feeds a new field value.
func (c *Checker) Change(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	c.stopTimerLocked()

	if utf8.RuneCountInString(value) < c.minLength {
		c.abandonLocked()
		c.hasFired = false
		c.settleLocked(false)
		return
	}

	c.pending = value
	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
	c.busyLocked()
}

// Flush fires an armed debounce timer now.
func (c *Checker) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.timer == nil {
		return
	}
	c.stopTimerLocked()
	c.issueLocked(c.pending)
}

// Reset cancels pending and in-flight work and clears the duplicate entry.
// original is the persisted value used for self-exclusion when editing.
func (c *Checker) Reset(original string, editing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.original = original
	c.editing = editing
}

// Stop releases the checker. Later calls to Change are ignored.
func (c *Checker) Stop() {
	c.mu.Lock()
	c.resetLocked()
	c.stopped = true
	c.mu.Unlock()
	c.stop()
}

func (c *Checker) Checking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checking
}

func (c *Checker) IsDuplicate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duplicate
}

func (c *Checker) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Pending:   c.timer != nil,
		Checking:  c.checking,
		Duplicate: c.duplicate,
	}
}

// Busy is true while a timer is armed or a lookup is outstanding.
func (c *Checker) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil || c.checking
}

// Wait blocks until no timer is armed and no lookup is outstanding.
func (c *Checker) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Checker) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || gen != c.timerGen || c.timer == nil {
		return
	}
	c.timer = nil
	c.issueLocked(c.pending)
}

func (c *Checker) issueLocked(value string) {
	if c.hasFired && value == c.lastFired {
		c.idleIfQuietLocked()
		return
	}
	c.lastFired = value
	c.hasFired = true

	c.cancelInflightLocked()
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithTimeout(c.root, c.timeout)
	c.cancel = cancel
	c.inflight = value
	c.checking = true
	c.busyLocked()

	go c.run(ctx, seq, value)
}

func (c *Checker) run(ctx context.Context, seq uint64, value string) {
	ch := c.flight.DoChan(value, func() (any, error) {
		return c.lookup(ctx, value)
	})

	var (
		exists bool
		err    error
	)
	select {
	case res := <-ch:
		err = res.Err
		if err == nil {
			exists, _ = res.Val.(bool)
		}
	case <-ctx.Done():
		err = ctx.Err()
	}

	c.apply(seq, value, exists, err)
}

func (c *Checker) apply(seq uint64, value string, exists bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || seq != c.seq {
		c.logger.Debug("discarding superseded check", zap.String("value", value))
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.logger.Warn("duplicate check failed, treating as available",
			zap.String("value", value),
			zap.Error(err),
		)
		exists = false
	}
	if exists && c.editing && value == c.original {
		exists = false
	}
	c.checking = false
	c.settleLocked(exists)
}

func (c *Checker) settleLocked(duplicate bool) {
	c.duplicate = duplicate
	if duplicate {
		c.field.SetError(form.RuleDuplicate, form.Meta{})
	} else {
		c.field.ClearError(form.RuleDuplicate)
	}
	c.idleIfQuietLocked()
}

func (c *Checker) resetLocked() {
	c.stopTimerLocked()
	c.abandonLocked()
	c.hasFired = false
	c.lastFired = ""
	c.duplicate = false
	c.field.ClearError(form.RuleDuplicate)
	c.idleIfQuietLocked()
}

// abandonLocked supersedes any in-flight lookup.
func (c *Checker) abandonLocked() {
	c.seq++
	c.cancelInflightLocked()
	c.checking = false
}

// cancelInflightLocked also forgets the shared flight so a later lookup of
// the same value does not join a cancelled call.
func (c *Checker) cancelInflightLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.flight.Forget(c.inflight)
}

func (c *Checker) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Checker) busyLocked() {
	select {
	case <-c.idle:
		c.idle = make(chan struct{})
	default:
	}
}

func (c *Checker) idleIfQuietLocked() {
	if c.timer != nil || c.checking {
		return
	}
	select {
	case <-c.idle:
	default:
		close(c.idle)
	}
}
