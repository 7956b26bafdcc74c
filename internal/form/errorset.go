package form

// Rule names a single validation failure kind on a field.
type Rule string

const (
	RuleRequired  Rule = "required"
	RulePattern   Rule = "pattern"
	RuleMinLength Rule = "minlength"
	RuleMaxLength Rule = "maxlength"
	RuleMin       Rule = "min"
	RuleNumber    Rule = "number"
	RulePast      Rule = "past"
	RuleDuplicate Rule = "duplicate"
)

// Meta is the rule specific detail, e.g. {"requiredLength": 2, "actualLength": 1}.
type Meta map[string]any

// ErrorSet holds the active failures of one field keyed by rule. Independent
// validators insert and remove their own entry only.
type ErrorSet map[Rule]Meta

func (s ErrorSet) Has(rule Rule) bool {
	_, ok := s[rule]
	return ok
}

func (s ErrorSet) Empty() bool {
	return len(s) == 0
}

func (s ErrorSet) clone() ErrorSet {
	out := make(ErrorSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
