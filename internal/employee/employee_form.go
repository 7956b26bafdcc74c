package employee

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/department"
	"go-hris-admin/internal/duplicate"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	FieldCode         = "code"
	FieldName         = "name"
	FieldDateOfBirth  = "dateOfBirth"
	FieldAddress      = "address"
	FieldMobile       = "mobile"
	FieldSalary       = "salary"
	FieldDepartmentID = "departmentId"
	FieldIsActive     = "isActive"
)

const DefaultImageTimeout = 30 * time.Second

// DepartmentOptions supplies the department picker. *department.Options
// implements it.
type DepartmentOptions interface {
	Active(ctx context.Context) ([]department.Department, error)
}

type FormConfig struct {
	Check        duplicate.Options
	Departments  DepartmentOptions
	Notifier     notify.Notifier
	Audit        audit.Logger
	ImageTimeout time.Duration
	OnSaved      func(ctx context.Context, saved Employee)
}

// Form drives the create/edit/view dialog of an employee. Only the code is
// checked for duplicates. The photo is uploaded after the record is saved.
type Form struct {
	svc          Service
	departments  DepartmentOptions
	fields       *form.Group
	checks       duplicate.Set
	notifier     notify.Notifier
	audit        audit.Logger
	onSaved      func(context.Context, Employee)
	imageTimeout time.Duration
	logger       *zap.Logger

	mu         sync.Mutex
	open       bool
	mode       form.Mode
	target     Employee
	submitting bool
	staged     *Image
	clearImage bool

	images    sync.WaitGroup
	imageMu   sync.Mutex
	imageErrs []error
}

var departmentIDPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

func NewForm(svc Service, cfg FormConfig, logger ...*zap.Logger) *Form {
	l := zap.L().Named("employee.form")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.form")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogNotifier(l)
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.Nop{}
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = DefaultImageTimeout
	}

	fields := form.NewGroup(
		form.NewField(FieldCode, "Employee code",
			form.Required(),
			form.Pattern(form.CodePattern, form.CodePatternMessage),
		),
		form.NewField(FieldName, "Employee name",
			form.Required(),
			form.MinLength(2),
			form.MaxLength(100),
			form.Pattern(form.NamePattern, form.NamePatternMessage),
		),
		form.NewField(FieldDateOfBirth, "Date of birth", form.Past(nil)),
		form.NewField(FieldAddress, "Address", form.MaxLength(500)),
		form.NewField(FieldMobile, "Mobile number",
			form.Pattern(form.MobilePattern, form.MobilePatternMessage),
		),
		form.NewField(FieldSalary, "Salary",
			form.Required(),
			form.Number(),
			form.Min(decimal.RequireFromString("0.01")),
		),
		form.NewField(FieldDepartmentID, "Department",
			form.Required(),
			form.Pattern(departmentIDPattern, "Please select a department"),
		),
		form.NewField(FieldIsActive, "Status"),
	)

	return &Form{
		svc:         svc,
		departments: cfg.Departments,
		fields:      fields,
		checks: duplicate.Set{
			FieldCode: duplicate.NewChecker(fields.Field(FieldCode), svc.ExistsCode, cfg.Check, l),
		},
		notifier:     cfg.Notifier,
		audit:        cfg.Audit,
		onSaved:      cfg.OnSaved,
		imageTimeout: cfg.ImageTimeout,
		logger:       l,
	}
}

// Open (re)populates the form. Edit and view need a persisted target.
func (f *Form) Open(mode form.Mode, target *Employee) error {
	if mode != form.ModeAdd && (target == nil || target.ID == 0) {
		return form.ErrMissingTarget
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return form.ErrSubmitting
	}

	t := Employee{IsActive: true}
	if mode != form.ModeAdd {
		t = *target
	}

	f.checks.Reset(map[string]string{FieldCode: t.Code}, mode == form.ModeEdit)
	f.fields.Reset(values(t))
	for _, name := range f.fields.Names() {
		f.fields.Field(name).SetDisabled(mode == form.ModeView)
	}

	f.open = true
	f.mode = mode
	f.target = t
	f.staged = nil
	f.clearImage = false
	return nil
}

func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(); err != nil {
		return err
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

// StageImage replaces the photo to upload on submit.
func (f *Form) StageImage(img Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(); err != nil {
		return err
	}
	f.staged = &img
	f.clearImage = false
	return nil
}

// ClearImage drops a staged photo and marks the stored one for removal.
func (f *Form) ClearImage() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(); err != nil {
		return err
	}
	f.staged = nil
	f.clearImage = true
	return nil
}

// ImagePreview is the staged file name, the stored image URL, or "".
func (f *Form) ImagePreview() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.staged != nil:
		return f.staged.Filename
	case f.clearImage:
		return ""
	}
	return f.svc.ImageURL(f.target.ImageURL)
}

// Departments lists the department picker options.
func (f *Form) Departments(ctx context.Context) ([]department.Department, error) {
	if f.departments == nil {
		return nil, nil
	}
	return f.departments.Active(ctx)
}

// Submit validates and issues exactly one create or update, then schedules
// the photo step. A photo failure never undoes the saved record.
func (f *Form) Submit(ctx context.Context) (Employee, error) {
	f.mu.Lock()
	if err := f.submittableLocked(); err != nil {
		f.mu.Unlock()
		return Employee{}, err
	}
	f.fields.TouchAll()
	if err := f.validateLocked(); err != nil {
		f.mu.Unlock()
		return Employee{}, err
	}

	mode := f.mode
	req := f.requestLocked()
	staged := f.staged
	remove := f.clearImage && f.target.ImageURL != ""
	f.submitting = true
	f.mu.Unlock()

	logger := contextutil.GetLogger(ctx, f.logger).With(
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("mode", mode.String()),
		zap.String("code", req.Code),
	)

	var (
		saved Employee
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
		logger.Warn("save employee failed", zap.Error(err))
		if mode == form.ModeEdit {
			notify.Error(f.notifier, "Failed to update employee")
		} else {
			notify.Error(f.notifier, "Failed to create employee")
		}
		return Employee{}, err
	}
	f.closeLocked()
	f.mu.Unlock()

	action, fallback := audit.ActionCreate, "Employee created successfully"
	if mode == form.ModeEdit {
		action, fallback = audit.ActionUpdate, "Employee updated successfully"
	}
	if msg == "" {
		msg = fallback
	}
	logger.Info("employee saved", zap.Int64("id", saved.ID))
	notify.Success(f.notifier, msg)
	f.audit.Log(ctx, audit.NewEntry("employee", saved.ID, action, msg))

	f.scheduleImage(ctx, saved.ID, staged, remove)

	if f.onSaved != nil {
		f.onSaved(ctx, saved)
	}
	return saved, nil
}

// Drain waits for scheduled photo steps and returns their failures since
// the previous Drain.
func (f *Form) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.images.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	f.imageMu.Lock()
	defer f.imageMu.Unlock()
	err := errors.Join(f.imageErrs...)
	f.imageErrs = nil
	return err
}

func (f *Form) scheduleImage(ctx context.Context, id int64, img *Image, remove bool) {
	if img == nil && !remove {
		return
	}

	detached := context.WithoutCancel(ctx)
	f.images.Add(1)
	go func() {
		defer f.images.Done()
		ctx, cancel := context.WithTimeout(detached, f.imageTimeout)
		defer cancel()

		var (
			err     error
			done    = "Image removed"
			failure = "Employee saved but removing the image failed"
		)
		if img != nil {
			done, failure = "Image uploaded", "Employee saved but the image upload failed"
			_, err = f.svc.UploadImage(ctx, id, *img)
		} else {
			err = f.svc.RemoveImage(ctx, id)
		}

		if err != nil {
			f.logger.Warn("employee image step failed",
				zap.String("request_id", contextutil.GetRequestID(ctx)),
				zap.Int64("id", id),
				zap.Error(err),
			)
			notify.Warn(f.notifier, failure)
			f.imageMu.Lock()
			f.imageErrs = append(f.imageErrs, apperror.Wrap(err, apperror.CodePartialFailure, failure, 0))
			f.imageMu.Unlock()
			return
		}
		f.audit.Log(ctx, audit.NewEntry("employee", id, audit.ActionImage, done))
	}()
}

func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

// Stop closes the form and releases the checker. Scheduled photo steps keep
// running; see Drain.
func (f *Form) Stop() {
	f.Close()
	f.checks.Stop()
}

func (f *Form) Wait(ctx context.Context) error {
	return f.checks.Wait(ctx)
}

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
	return form.Title(f.mode, "Employee", f.target.Name)
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

func (f *Form) Check(name string) (duplicate.State, bool) {
	c, ok := f.checks[name]
	if !ok {
		return duplicate.State{}, false
	}
	return c.State(), true
}

func (f *Form) editableLocked() error {
	if !f.open {
		return form.ErrClosed
	}
	if f.mode == form.ModeView {
		return form.ErrReadOnly
	}
	return nil
}

func (f *Form) submittableLocked() error {
	if err := f.editableLocked(); err != nil {
		return err
	}
	if f.submitting {
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

// requestLocked merges the form values over the target copy. Values were
// validated, so parse failures cannot happen here.
func (f *Form) requestLocked() Employee {
	e := f.target
	v := f.fields.Values()
	e.Code = v[FieldCode]
	e.Name = v[FieldName]
	e.DateOfBirth = v[FieldDateOfBirth]
	e.Address = v[FieldAddress]
	e.Mobile = v[FieldMobile]
	e.Salary, _ = decimal.NewFromString(strings.TrimSpace(v[FieldSalary]))
	e.DepartmentID, _ = strconv.ParseInt(v[FieldDepartmentID], 10, 64)
	e.IsActive, _ = strconv.ParseBool(v[FieldIsActive])
	if e.DepartmentID != f.target.DepartmentID {
		e.DepartmentName, e.DepartmentCode = "", ""
	}
	return e
}

func (f *Form) closeLocked() {
	f.checks.Reset(nil, false)
	f.fields.Reset(values(Employee{IsActive: true}))
	for _, name := range f.fields.Names() {
		f.fields.Field(name).SetDisabled(false)
	}
	f.open = false
	f.mode = form.ModeAdd
	f.target = Employee{}
	f.staged = nil
	f.clearImage = false
}

func values(e Employee) map[string]string {
	v := map[string]string{
		FieldCode:         e.Code,
		FieldName:         e.Name,
		FieldDateOfBirth:  e.DateOfBirth,
		FieldAddress:      e.Address,
		FieldMobile:       e.Mobile,
		FieldSalary:       "",
		FieldDepartmentID: "",
		FieldIsActive:     strconv.FormatBool(e.IsActive),
	}
	if e.ID != 0 {
		v[FieldSalary] = e.Salary.String()
	}
	if e.DepartmentID != 0 {
		v[FieldDepartmentID] = strconv.FormatInt(e.DepartmentID, 10)
	}
	return v
}
