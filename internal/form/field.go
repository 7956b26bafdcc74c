package form

import "sync"

// Field is one form control: a string value, its sync validators and the
// merged error set. Safe for concurrent use; duplicate checkers write the
// RuleDuplicate entry from their own goroutines.
type Field struct {
	name       string
	label      string
	validators []Validator

	mu       sync.RWMutex
	value    string
	touched  bool
	disabled bool
	errors   ErrorSet
}

func NewField(name, label string, validators ...Validator) *Field {
	f := &Field{
		name:       name,
		label:      label,
		validators: validators,
		errors:     ErrorSet{},
	}
	f.validate()
	return f
}

func (f *Field) Name() string  { return f.name }
func (f *Field) Label() string { return f.label }

func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Set stores value and re-runs the sync validators. Entries owned by other
// validators (duplicate) are left alone.
func (f *Field) Set(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.touched = true
	f.validate()
}

// Reset repopulates the field as pristine and drops every error, including
// the duplicate entry.
func (f *Field) Reset(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.touched = false
	f.errors = ErrorSet{}
	f.validate()
}

func (f *Field) Touch() {
	f.mu.Lock()
	f.touched = true
	f.mu.Unlock()
}

func (f *Field) Touched() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.touched
}

// SetDisabled excludes the field from validity, like a read-only control.
func (f *Field) SetDisabled(disabled bool) {
	f.mu.Lock()
	f.disabled = disabled
	f.mu.Unlock()
}

func (f *Field) SetError(rule Rule, meta Meta) {
	if meta == nil {
		meta = Meta{}
	}
	f.mu.Lock()
	f.errors[rule] = meta
	f.mu.Unlock()
}

func (f *Field) ClearError(rule Rule) {
	f.mu.Lock()
	delete(f.errors, rule)
	f.mu.Unlock()
}

// Errors returns a copy of the active error set.
func (f *Field) Errors() ErrorSet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors.clone()
}

func (f *Field) Valid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disabled || f.errors.Empty()
}

// Message is the inline error text, empty until the field is touched.
func (f *Field) Message() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.touched || f.disabled {
		return ""
	}
	return Message(f.label, f.errors)
}

func (f *Field) validate() {
	for _, v := range f.validators {
		if meta := v.Check(f.value); meta != nil {
			f.errors[v.Rule] = meta
		} else {
			delete(f.errors, v.Rule)
		}
	}
}
