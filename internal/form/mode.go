package form

import "go-hris-admin/internal/shared/apperror"

type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return "add"
	}
}

var (
	ErrClosed = apperror.New(
		apperror.CodeInvalidState,
		"The form is not open",
		0,
	)
	ErrReadOnly = apperror.New(
		apperror.CodeInvalidState,
		"The form is read-only",
		0,
	)
	ErrSubmitting = apperror.New(
		apperror.CodeInvalidState,
		"A submission is already in progress",
		0,
	)
	// ErrUnexpectedResponse is a successful save that carried no record.
	ErrUnexpectedResponse = apperror.New(
		apperror.CodeRequestFailed,
		"Unexpected response from server",
		0,
	)
	ErrMissingTarget = apperror.New(
		apperror.CodeInvalidInput,
		"A persisted record is required to edit or view",
		0,
	)
)

// SubmitLabel is the submit button text, e.g. "Create" or "Updating...".
func SubmitLabel(mode Mode, submitting bool) string {
	switch {
	case mode == ModeEdit && submitting:
		return "Updating..."
	case mode == ModeEdit:
		return "Update"
	case submitting:
		return "Creating..."
	default:
		return "Create"
	}
}

// Title is the form heading for an entity such as "Department".
func Title(mode Mode, entity, name string) string {
	switch mode {
	case ModeEdit:
		if name == "" {
			return "Edit " + entity
		}
		return "Edit " + entity + ": " + name
	case ModeView:
		return entity + " Details: " + name
	default:
		return "Add New " + entity
	}
}
