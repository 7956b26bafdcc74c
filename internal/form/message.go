package form

import "fmt"

// precedence of the single message shown per field
var messageOrder = []Rule{
	RuleRequired,
	RulePattern,
	RuleNumber,
	RuleMinLength,
	RuleMaxLength,
	RuleMin,
	RulePast,
	RuleDuplicate,
}

// Message renders the first failing rule of errs for a field labelled label.
func Message(label string, errs ErrorSet) string {
	if errs.Empty() {
		return ""
	}
	for _, rule := range messageOrder {
		meta, ok := errs[rule]
		if !ok {
			continue
		}
		switch rule {
		case RuleRequired:
			return fmt.Sprintf("%s is required", label)
		case RulePattern:
			if msg, ok := meta["message"].(string); ok && msg != "" {
				return msg
			}
			return fmt.Sprintf("%s has an invalid format", label)
		case RuleNumber:
			return fmt.Sprintf("%s must be a number", label)
		case RuleMinLength:
			return fmt.Sprintf("%s must be at least %v characters", label, meta["requiredLength"])
		case RuleMaxLength:
			return fmt.Sprintf("%s cannot exceed %v characters", label, meta["requiredLength"])
		case RuleMin:
			return fmt.Sprintf("%s must be greater than %v", label, meta["min"])
		case RulePast:
			if meta["invalid"] == true {
				return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", label)
			}
			return fmt.Sprintf("%s must be in the past", label)
		case RuleDuplicate:
			return fmt.Sprintf("%s already exists", label)
		}
	}
	return "Invalid value"
}
