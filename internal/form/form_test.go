package form_test

import (
	"strings"
	"testing"
	"time"

	"go-hris-admin/internal/form"
	"go-hris-admin/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeField() *form.Field {
	return form.NewField("code", "Employee code",
		form.Required(),
		form.Pattern(form.CodePattern, "Code can only contain letters, numbers, hyphens, and underscores"),
	)
}

func TestField_DuplicateIsolation(t *testing.T) {
	t.Run("duplicate survives sync revalidation", func(t *testing.T) {
		f := codeField()
		f.Set("EMP 01")
		f.SetError(form.RuleDuplicate, nil)

		errs := f.Errors()
		assert.True(t, errs.Has(form.RulePattern))
		assert.True(t, errs.Has(form.RuleDuplicate))

		f.Set("EMP 02")
		errs = f.Errors()
		assert.True(t, errs.Has(form.RulePattern))
		assert.True(t, errs.Has(form.RuleDuplicate))
	})

	t.Run("clearing duplicate keeps required", func(t *testing.T) {
		f := codeField()
		f.Set("")
		f.SetError(form.RuleDuplicate, nil)
		f.ClearError(form.RuleDuplicate)

		errs := f.Errors()
		assert.True(t, errs.Has(form.RuleRequired))
		assert.False(t, errs.Has(form.RuleDuplicate))
		assert.False(t, f.Valid())
	})

	t.Run("clearing the last entry makes the field valid", func(t *testing.T) {
		f := codeField()
		f.Set("EMP01")
		f.SetError(form.RuleDuplicate, nil)
		assert.False(t, f.Valid())

		f.ClearError(form.RuleDuplicate)
		assert.True(t, f.Valid())
		assert.True(t, f.Errors().Empty())
	})

	t.Run("reset drops duplicate", func(t *testing.T) {
		f := codeField()
		f.Set("EMP01")
		f.SetError(form.RuleDuplicate, nil)
		f.Reset("HR")

		assert.True(t, f.Valid())
		assert.False(t, f.Touched())
	})
}

func TestField_Message(t *testing.T) {
	tests := []struct {
		name  string
		field *form.Field
		value string
		want  string
	}{
		{
			name:  "required",
			field: codeField(),
			value: "",
			want:  "Employee code is required",
		},
		{
			name:  "code pattern",
			field: codeField(),
			value: "A B",
			want:  "Code can only contain letters, numbers, hyphens, and underscores",
		},
		{
			name:  "min length",
			field: form.NewField("name", "Department name", form.Required(), form.MinLength(2)),
			value: "A",
			want:  "Department name must be at least 2 characters",
		},
		{
			name:  "max length",
			field: form.NewField("description", "Description", form.MaxLength(5)),
			value: "abcdef",
			want:  "Description cannot exceed 5 characters",
		},
		{
			name:  "mobile pattern",
			field: form.NewField("mobile", "Mobile number", form.Pattern(form.MobilePattern, "Mobile number must be exactly 11 digits starting with 01")),
			value: "0212345678",
			want:  "Mobile number must be exactly 11 digits starting with 01",
		},
		{
			name:  "salary min",
			field: form.NewField("salary", "Salary", form.Required(), form.Number(), form.Min(decimal.RequireFromString("0.01"))),
			value: "0",
			want:  "Salary must be greater than 0.01",
		},
		{
			name:  "salary not a number",
			field: form.NewField("salary", "Salary", form.Required(), form.Number(), form.Min(decimal.RequireFromString("0.01"))),
			value: "abc",
			want:  "Salary must be a number",
		},
		{
			name:  "valid",
			field: codeField(),
			value: "EMP-01_a",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.field.Set(tt.value)
			assert.Equal(t, tt.want, tt.field.Message())
		})
	}

	t.Run("hidden until touched", func(t *testing.T) {
		f := codeField()
		assert.False(t, f.Valid())
		assert.Empty(t, f.Message())

		f.Touch()
		assert.Equal(t, "Employee code is required", f.Message())
	})

	t.Run("duplicate", func(t *testing.T) {
		f := codeField()
		f.Set("EMP01")
		f.SetError(form.RuleDuplicate, nil)
		assert.Equal(t, "Employee code already exists", f.Message())
	})
}

func TestRules(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) }

	t.Run("past", func(t *testing.T) {
		past := form.Past(now)
		assert.Nil(t, past.Check(""))
		assert.Nil(t, past.Check("2024-05-09"))
		assert.NotNil(t, past.Check("2024-05-10"))
		assert.Equal(t, true, past.Check("10/05/2024")["invalid"])
	})

	t.Run("name pattern", func(t *testing.T) {
		assert.True(t, form.NamePattern.MatchString("Mary-Jane O'Neil Jr."))
		assert.False(t, form.NamePattern.MatchString("R2D2"))
	})

	t.Run("length counts characters", func(t *testing.T) {
		assert.Nil(t, form.MaxLength(3).Check("äöü"))
		assert.NotNil(t, form.MaxLength(100).Check(strings.Repeat("a", 101)))
		assert.Nil(t, form.MinLength(2).Check(""))
	})

	t.Run("min is inclusive", func(t *testing.T) {
		min := form.Min(decimal.RequireFromString("0.01"))
		assert.Nil(t, min.Check("0.01"))
		assert.NotNil(t, min.Check("0.009"))
	})
}

func TestGroup_Err(t *testing.T) {
	g := form.NewGroup(
		codeField(),
		form.NewField("name", "Employee name", form.Required()),
	)
	g.Reset(map[string]string{"code": "EMP01"})

	assert.False(t, g.Valid())
	assert.Empty(t, g.Messages())

	g.TouchAll()
	err := g.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, map[string]string{"name": "Employee name is required"}, appErr.Details)

	g.Field("name").Set("Jo")
	assert.NoError(t, g.Err())
	assert.Equal(t, map[string]string{"code": "EMP01", "name": "Jo"}, g.Values())
}
