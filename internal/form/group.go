package form

import (
	"fmt"

	"go-hris-admin/internal/shared/apperror"
)

// Group is an ordered set of fields.
type Group struct {
	order  []string
	fields map[string]*Field
}

func NewGroup(fields ...*Field) *Group {
	g := &Group{fields: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		g.order = append(g.order, f.Name())
		g.fields[f.Name()] = f
	}
	return g
}

// Field panics on unknown names; field names are compile-time constants.
func (g *Group) Field(name string) *Field {
	f, ok := g.fields[name]
	if !ok {
		panic(fmt.Sprintf("form: unknown field %q", name))
	}
	return f
}

func (g *Group) Lookup(name string) (*Field, bool) {
	f, ok := g.fields[name]
	return f, ok
}

func (g *Group) Names() []string {
	return append([]string(nil), g.order...)
}

func (g *Group) Value(name string) string {
	return g.Field(name).Value()
}

func (g *Group) Values() map[string]string {
	out := make(map[string]string, len(g.order))
	for _, name := range g.order {
		out[name] = g.fields[name].Value()
	}
	return out
}

// Reset repopulates every field; names missing from values become "".
func (g *Group) Reset(values map[string]string) {
	for _, name := range g.order {
		g.fields[name].Reset(values[name])
	}
}

func (g *Group) TouchAll() {
	for _, name := range g.order {
		g.fields[name].Touch()
	}
}

func (g *Group) Valid() bool {
	for _, name := range g.order {
		if !g.fields[name].Valid() {
			return false
		}
	}
	return true
}

// Messages maps each invalid, touched field to its inline message.
func (g *Group) Messages() map[string]string {
	out := map[string]string{}
	for _, name := range g.order {
		if msg := g.fields[name].Message(); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// Err is nil when the group is valid, otherwise a VALIDATION_ERROR carrying
// Messages as details.
func (g *Group) Err() error {
	if g.Valid() {
		return nil
	}
	return apperror.ErrValidation.WithDetails(g.Messages())
}
