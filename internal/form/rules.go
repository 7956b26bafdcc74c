package form

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Validator checks one rule. Check returns nil when the value passes.
type Validator struct {
	Rule  Rule
	Check func(value string) Meta
}

const DateLayout = "2006-01-02"

var (
	CodePattern   = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)
	NamePattern   = regexp.MustCompile(`^[A-Za-z\s.'-]*$`)
	MobilePattern = regexp.MustCompile(`^01[0-9]{9}$`)
)

const (
	CodePatternMessage   = "Code can only contain letters, numbers, hyphens, and underscores"
	NamePatternMessage   = "Name can only contain letters, spaces, dots, apostrophes, and hyphens"
	MobilePatternMessage = "Mobile number must be exactly 11 digits starting with 01"
)

func Required() Validator {
	return Validator{
		Rule: RuleRequired,
		Check: func(value string) Meta {
			if err := validate.Var(value, "required"); err != nil {
				return Meta{}
			}
			return nil
		},
	}
}

// MinLength skips empty values; pair it with Required.
func MinLength(n int) Validator {
	return Validator{
		Rule: RuleMinLength,
		Check: func(value string) Meta {
			if err := validate.Var(value, fmt.Sprintf("omitempty,min=%d", n)); err != nil {
				return Meta{"requiredLength": n, "actualLength": utf8.RuneCountInString(value)}
			}
			return nil
		},
	}
}

func MaxLength(n int) Validator {
	return Validator{
		Rule: RuleMaxLength,
		Check: func(value string) Meta {
			if err := validate.Var(value, fmt.Sprintf("max=%d", n)); err != nil {
				return Meta{"requiredLength": n, "actualLength": utf8.RuneCountInString(value)}
			}
			return nil
		},
	}
}

// Pattern matches non-empty values against re. message overrides the
// generic text for this field.
func Pattern(re *regexp.Regexp, message string) Validator {
	return Validator{
		Rule: RulePattern,
		Check: func(value string) Meta {
			if value == "" || re.MatchString(value) {
				return nil
			}
			return Meta{"requiredPattern": re.String(), "actualValue": value, "message": message}
		},
	}
}

func Number() Validator {
	return Validator{
		Rule: RuleNumber,
		Check: func(value string) Meta {
			if value == "" {
				return nil
			}
			if _, err := decimal.NewFromString(value); err != nil {
				return Meta{"actualValue": value}
			}
			return nil
		},
	}
}

// Min is inclusive and ignores empty or non-numeric values.
func Min(min decimal.Decimal) Validator {
	return Validator{
		Rule: RuleMin,
		Check: func(value string) Meta {
			d, err := decimal.NewFromString(value)
			if err != nil || !d.LessThan(min) {
				return nil
			}
			return Meta{"min": min.String(), "actual": d.String()}
		},
	}
}

// Past requires a DateLayout value strictly before today. now is injectable
// for tests; nil means time.Now.
func Past(now func() time.Time) Validator {
	if now == nil {
		now = time.Now
	}
	return Validator{
		Rule: RulePast,
		Check: func(value string) Meta {
			if value == "" {
				return nil
			}
			d, err := time.Parse(DateLayout, value)
			if err != nil {
				return Meta{"actualValue": value, "invalid": true}
			}
			y, m, day := now().Date()
			today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
			if !d.Before(today) {
				return Meta{"actualValue": value}
			}
			return nil
		},
	}
}
