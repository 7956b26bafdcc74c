package duplicate

import (
	"context"
	"fmt"
)

// Set groups the checkers of one form by field name.
type Set map[string]*Checker

// Change forwards value to the checker of field, if any.
func (s Set) Change(field, value string) {
	if c, ok := s[field]; ok {
		c.Change(value)
	}
}

// Reset re-arms every checker; originals maps field name to the persisted
// value used for self-exclusion.
func (s Set) Reset(originals map[string]string, editing bool) {
	for name, c := range s {
		c.Reset(originals[name], editing)
	}
}

func (s Set) Stop() {
	for _, c := range s {
		c.Stop()
	}
}

func (s Set) Flush() {
	for _, c := range s {
		c.Flush()
	}
}

// Busy lists the fields whose check has not settled.
func (s Set) Busy() []string {
	var busy []string
	for name, c := range s {
		if c.Busy() {
			busy = append(busy, name)
		}
	}
	return busy
}

func (s Set) Wait(ctx context.Context) error {
	for name, c := range s {
		if err := c.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for %s check: %w", name, err)
		}
	}
	return nil
}
