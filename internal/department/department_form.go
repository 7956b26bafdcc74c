package department

import (
	"context"
	"strconv"
	"sync"

	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/duplicate"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	FieldCode        = "code"
	FieldName        = "name"
	FieldDescription = "description"
	FieldIsActive    = "isActive"
)

type FormConfig struct {
	Check    duplicate.Options
	Notifier notify.Notifier
	Audit    audit.Logger
	// OnSaved runs after a successful create or update, typically a list reload.
	OnSaved func(ctx context.Context, saved Department)
}

// Form drives the create/edit/view dialog of a department. Code and name
// are checked for duplicates while typing.
type Form struct {
	svc      Service
	fields   *form.Group
	checks   duplicate.Set
	notifier notify.Notifier
	audit    audit.Logger
	onSaved  func(context.Context, Department)
	logger   *zap.Logger

	mu         sync.Mutex
	open       bool
	mode       form.Mode
	target     Department
	submitting bool
}

func NewForm(svc Service, cfg FormConfig, logger ...*zap.Logger) *Form {
	l := zap.L().Named("department.form")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.form")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogNotifier(l)
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.Nop{}
	}

	fields := form.NewGroup(
		form.NewField(FieldCode, "Department code",
			form.Required(),
			form.Pattern(form.CodePattern, form.CodePatternMessage),
		),
		form.NewField(FieldName, "Department name",
			form.Required(),
			form.MinLength(2),
			form.MaxLength(100),
			form.Pattern(form.NamePattern, form.NamePatternMessage),
		),
		form.NewField(FieldDescription, "Description", form.MaxLength(500)),
		form.NewField(FieldIsActive, "Status"),
	)

	return &Form{
		svc:    svc,
		fields: fields,
		checks: duplicate.Set{
			FieldCode: duplicate.NewChecker(fields.Field(FieldCode), svc.ExistsCode, cfg.Check, l),
			FieldName: duplicate.NewChecker(fields.Field(FieldName), svc.ExistsName, cfg.Check, l),
		},
		notifier: cfg.Notifier,
		audit:    cfg.Audit,
		onSaved:  cfg.OnSaved,
		logger:   l,
	}
}

// Open (re)populates the form. Edit and view need a persisted target; add
// ignores target.
func (f *Form) Open(mode form.Mode, target *Department) error {
	if mode != form.ModeAdd && (target == nil || target.ID == 0) {
		return form.ErrMissingTarget
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return form.ErrSubmitting
	}

	t := Department{IsActive: true}
	if mode != form.ModeAdd {
		t = *target
	}

	f.checks.Reset(map[string]string{FieldCode: t.Code, FieldName: t.Name}, mode == form.ModeEdit)
	f.fields.Reset(values(t))
	for _, name := range f.fields.Names() {
		f.fields.Field(name).SetDisabled(mode == form.ModeView)
	}

	f.open = true
	f.mode = mode
	f.target = t
	return nil
}

// Set updates one field as if the operator typed value.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return form.ErrClosed
	}
	if f.mode == form.ModeView {
		return form.ErrReadOnly
	}
	field, ok := f.fields.Lookup(name)
	if !ok {
		return apperror.InvalidField(name)
	}
	if name == FieldIsActive {
		if _, err := strconv.ParseBool(value); err != nil {
			return apperror.InvalidField("Status")
		}
	}

	field.Set(value)
	f.checks.Change(name, value)
	return nil
}

// Submit validates and issues exactly one create or update. Nothing is sent
// while a field is invalid, a duplicate was found or a check is unsettled.
func (f *Form) Submit(ctx context.Context) (Department, error) {
	f.mu.Lock()
	if err := f.submittableLocked(); err != nil {
		f.mu.Unlock()
		return Department{}, err
	}
	f.fields.TouchAll()
	if err := f.validateLocked(); err != nil {
		f.mu.Unlock()
		return Department{}, err
	}

	mode := f.mode
	req := f.requestLocked()
	f.submitting = true
	f.mu.Unlock()

	logger := contextutil.GetLogger(ctx, f.logger).With(
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("mode", mode.String()),
		zap.String("code", req.Code),
	)

	var (
		saved Department
		msg   string
		err   error
	)
	if mode == form.ModeEdit {
		saved, msg, err = f.svc.Update(ctx, req.ID, req)
	} else {
		saved, msg, err = f.svc.Create(ctx, req)
	}

	if err == nil && saved.ID == 0 {
		err = form.ErrUnexpectedResponse
	}

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.mu.Unlock()
		logger.Warn("save department failed", zap.Error(err))
		if mode == form.ModeEdit {
			notify.Error(f.notifier, "Failed to update department")
		} else {
			notify.Error(f.notifier, "Failed to create department")
		}
		return Department{}, err
	}
	f.closeLocked()
	f.mu.Unlock()

	action, fallback := audit.ActionCreate, "Department created successfully"
	if mode == form.ModeEdit {
		action, fallback = audit.ActionUpdate, "Department updated successfully"
	}
	if msg == "" {
		msg = fallback
	}
	logger.Info("department saved", zap.Int64("id", saved.ID))
	notify.Success(f.notifier, msg)
	f.audit.Log(ctx, audit.NewEntry("department", saved.ID, action, msg))
	if f.onSaved != nil {
		f.onSaved(ctx, saved)
	}
	return saved, nil
}

// Close discards the entered values and any check state.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

// Stop closes the form and releases the checkers.
func (f *Form) Stop() {
	f.Close()
	f.checks.Stop()
}

// Wait blocks until every duplicate check has settled.
func (f *Form) Wait(ctx context.Context) error {
	return f.checks.Wait(ctx)
}

// Flush fires pending debounce timers immediately.
func (f *Form) Flush() {
	f.checks.Flush()
}

func (f *Form) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *Form) Mode() form.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return form.Title(f.mode, "Department", f.target.Name)
}

func (f *Form) SubmitLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return form.SubmitLabel(f.mode, f.submitting)
}

func (f *Form) Field(name string) (*form.Field, bool) {
	return f.fields.Lookup(name)
}

func (f *Form) Fields() *form.Group {
	return f.fields
}

// Check reports the duplicate check state of code or name.
func (f *Form) Check(name string) (duplicate.State, bool) {
	c, ok := f.checks[name]
	if !ok {
		return duplicate.State{}, false
	}
	return c.State(), true
}

func (f *Form) submittableLocked() error {
	switch {
	case !f.open:
		return form.ErrClosed
	case f.mode == form.ModeView:
		return form.ErrReadOnly
	case f.submitting:
		return form.ErrSubmitting
	}
	return nil
}

func (f *Form) validateLocked() error {
	busy := f.checks.Busy()
	if f.fields.Valid() && len(busy) == 0 {
		return nil
	}
	details := f.fields.Messages()
	for _, name := range busy {
		if _, ok := details[name]; !ok {
			details[name] = f.fields.Field(name).Label() + " is still being checked"
		}
	}
	return apperror.ErrValidation.WithDetails(details)
}

// requestLocked merges the form values over the target copy.
func (f *Form) requestLocked() Department {
	d := f.target
	v := f.fields.Values()
	d.Code = v[FieldCode]
	d.Name = v[FieldName]
	d.Description = v[FieldDescription]
	d.IsActive, _ = strconv.ParseBool(v[FieldIsActive])
	return d
}

func (f *Form) closeLocked() {
	f.checks.Reset(nil, false)
	f.fields.Reset(values(Department{IsActive: true}))
	for _, name := range f.fields.Names() {
		f.fields.Field(name).SetDisabled(false)
	}
	f.open = false
	f.mode = form.ModeAdd
	f.target = Department{}
}

func values(d Department) map[string]string {
	return map[string]string{
		FieldCode:        d.Code,
		FieldName:        d.Name,
		FieldDescription: d.Description,
		FieldIsActive:    strconv.FormatBool(d.IsActive),
	}
}
