package syntax

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"iter"
	"log/slog"
)

// Kind identifies the base kind of a [ValueType]. Only the built-in kinds
// accept the oneOf, min and max refinements.
type Kind int

const (
	KindOther Kind = iota // other
	KindWord              // word
	KindText              // text
	KindInt               // int
	KindFloat             // float
)

// refinable reports whether oneOf and min/max may be applied to values of
// kind k.
func (k Kind) refinable() bool {
	return k == KindWord || k == KindText || k == KindInt || k == KindFloat
}

// numeric reports whether min/max bound the value itself rather than its
// length.
func (k Kind) numeric() bool {
	return k == KindInt || k == KindFloat
}

// ValueType is a named, reusable parser from text to a typed value.
type ValueType struct {
	Name        string
	Label       string
	Description string
	Kind        Kind
	Parse       Parser[any]
}

// DisplayName returns the label of t, or its name when no label is set.
func (t *ValueType) DisplayName() string {
	if t.Label != "" {
		return t.Label
	}

	return t.Name
}

// Registry is an ordered collection of value types with unique names.
// A Registry is immutable once constructed.
type Registry struct {
	types []*ValueType
	index map[string]*ValueType
}

// NewRegistry returns a registry holding types in the given order.
//
// It fails with [ErrDuplicateType] when two types share a name and with
// [ErrInvalidType] when a type has no name or no parser.
func NewRegistry(types ...*ValueType) (*Registry, error) {
	r := &Registry{
		types: make([]*ValueType, 0, len(types)),
		index: make(map[string]*ValueType, len(types)),
	}

	if err := r.add(types...); err != nil {
		return nil, err
	}

	return r, nil
}

// Extend returns a new registry holding the receiver's types followed by
// types. The receiver is not modified.
func (r *Registry) Extend(types ...*ValueType) (*Registry, error) {
	return NewRegistry(append(r.list(), types...)...)
}

func (r *Registry) add(types ...*ValueType) error {
	for _, t := range types {
		if t == nil || t.Name == "" || t.Parse == nil {
			return ErrInvalidType.With(slog.Int("position", len(r.types)+1))
		}

		if _, ok := r.index[t.Name]; ok {
			return ErrDuplicateType.
				Wrapf("'%s'", t.Name).
				With(slog.String("type", t.Name))
		}

		r.types = append(r.types, t)
		r.index[t.Name] = t
	}

	return nil
}

// Lookup returns the type registered under name. The same pointer is
// returned on every call. It fails with [ErrTypeNotFound] if no type has
// that name.
func (r *Registry) Lookup(name string) (*ValueType, error) {
	if r != nil {
		if t, ok := r.index[name]; ok {
			return t, nil
		}
	}

	return nil, ErrTypeNotFound.
		Wrapf("'%s'", name).
		With(slog.String("type", name))
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.types)
}

// All returns an iterator over the registered types in registration order.
func (r *Registry) All() iter.Seq[*ValueType] {
	return func(yield func(*ValueType) bool) {
		if r == nil {
			return
		}

		for _, t := range r.types {
			if !yield(t) {
				return
			}
		}
	}
}

// Names returns the registered type names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())

	for t := range r.All() {
		names = append(names, t.Name)
	}

	return names
}

func (r *Registry) list() []*ValueType {
	if r == nil {
		return nil
	}

	return append([]*ValueType(nil), r.types...)
}
