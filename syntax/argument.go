package syntax

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Filter is an argument refinement with its own error message. It runs
// after every other refinement of the argument.
type Filter struct {
	Predicate func(value any) bool
	Error     string
}

// ArgumentSpec declares a typed argument.
type ArgumentSpec struct {
	Name        string
	Label       string // defaults to Name
	Description string
	// Type holds one type name, or several to build a union type tried in
	// the given order.
	Type []string
	// Default makes the argument optional: if the argument cannot be parsed,
	// Default is used as its value and no input is consumed.
	Default any
	// Error replaces the message of every failure of the type parser and of
	// the OneOf/Min/Max refinements.
	Error  string
	Filter *Filter
	// OneOf restricts values to an allow-list.
	// Only valid on word, text, int and float types, and never with Min/Max.
	OneOf []any
	// Min and Max bound the length of word/text values (in characters) or
	// the value of int/float values.
	Min *float64
	Max *float64
}

// Bound returns a pointer to v, for use as [ArgumentSpec.Min] or
// [ArgumentSpec.Max].
func Bound(v float64) *float64 { return &v }

// ArgumentResult is the named value produced by a successful argument parse.
type ArgumentResult struct {
	Kind  string `json:"kind"  yaml:"kind"`
	Name  string `json:"name"  yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// KindArgument is the Kind of every [ArgumentResult].
const KindArgument = "argument"

// Argument is a compiled [ArgumentSpec].
type Argument struct {
	spec  ArgumentSpec
	vtype *ValueType
	parse Parser[any]
}

// CompileArgument resolves spec against reg and builds its validating
// parser. A nil reg means [Builtins].
//
// All configuration problems are reported here: unknown or duplicate type
// names, refinements on union types or on non-refinable kinds, OneOf
// combined with Min or Max, and a Filter without a Predicate.
func CompileArgument(spec ArgumentSpec, reg *Registry) (*Argument, error) {
	if reg == nil {
		reg = Builtins()
	}

	if spec.Name == "" {
		return nil, ErrInvalidArgument.Wrapf("argument name is empty")
	}

	attr := slog.String("argument", spec.Name)

	if len(spec.Type) == 0 {
		return nil, ErrInvalidArgument.
			Wrapf("argument %q has no type", spec.Name).
			With(attr)
	}

	vtype, err := resolveType(spec.Type, reg)
	if err != nil {
		return nil, WrapError(err).With(attr)
	}

	hasBounds := spec.Min != nil || spec.Max != nil
	hasOneOf := len(spec.OneOf) > 0

	switch {
	case (hasOneOf || hasBounds) && len(spec.Type) > 1:
		return nil, ErrUnionRefinement.With(attr, slog.String("type", vtype.Name))

	case (hasOneOf || hasBounds) && !vtype.Kind.refinable():
		return nil, ErrRefinementKind.With(attr, slog.String("type", vtype.Name))

	case hasOneOf && hasBounds:
		return nil, ErrIncompatibleRefinement.With(attr)

	case spec.Filter != nil && spec.Filter.Predicate == nil:
		return nil, ErrInvalidArgument.
			Wrapf("argument %q has a filter without a predicate", spec.Name).
			With(attr)

	case spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max:
		return nil, ErrInvalidArgument.
			Wrapf("min %s is greater than max %s",
				formatNumber(*spec.Min), formatNumber(*spec.Max)).
			With(attr)
	}

	if spec.Label == "" {
		spec.Label = spec.Name
	}

	p := vtype.Parse

	if hasOneOf {
		p = refine(p, oneOf(spec.OneOf))
	}

	if hasBounds {
		p = refine(p, bounds(vtype.Kind, spec.Min, spec.Max))
	}

	if spec.Error != "" {
		p = p.MapError(override(spec.Error))
	}

	if spec.Filter != nil {
		p = refine(p, filter(*spec.Filter))
	}

	return &Argument{spec: spec, vtype: vtype, parse: p}, nil
}

// resolveType looks up names in reg. A single name yields the registered
// type itself; several names yield a synthesized union type.
func resolveType(names []string, reg *Registry) (*ValueType, error) {
	types := make([]*ValueType, 0, len(names))

	for _, name := range names {
		t, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}

		types = append(types, t)
	}

	if len(types) == 1 {
		return types[0], nil
	}

	return union(types), nil
}

func union(types []*ValueType) *ValueType {
	names := make([]string, len(types))
	labels := make([]string, len(types))
	lines := make([]string, len(types))
	parsers := make([]Parser[any], len(types))

	for i, t := range types {
		names[i] = t.Name
		labels[i] = t.DisplayName()
		lines[i] = t.Name + " -> " + t.Description
		parsers[i] = t.Parse
	}

	msg := "argument is not any of " + strings.Join(names, ", ")

	return &ValueType{
		Name:        strings.Join(names, "|"),
		Label:       strings.Join(labels, " | "),
		Description: strings.Join(lines, "\n"),
		Kind:        KindOther,
		Parse: Choice(parsers...).MapError(
			func(text string, o Outcome[any]) error {
				return newParseError(ErrMismatch, msg, text, o.Cursor).wrap(o.Err)
			},
		),
	}
}

// check inspects a successful outcome of a parser started at cursor and
// returns a non-nil error to reject it.
type check func(text string, cursor int, o Outcome[any]) *ParseError

// refine returns a parser that runs p and then c on each success. A rejected
// success becomes a failure at the original cursor.
func refine(p Parser[any], c check) Parser[any] {
	return func(text string, cursor int) Outcome[any] {
		o := p(text, cursor)
		if !o.OK() {
			return o
		}

		if err := c(text, cursor, o); err != nil {
			return failure[any](err, cursor)
		}

		return o
	}
}

// rejected builds a refinement failure whose Target is the consumed input.
func rejected(category *Error, msg, text string, cursor int, o Outcome[any]) *ParseError {
	return &ParseError{
		Err:    category,
		Msg:    msg,
		Index:  cursor,
		Target: text[cursor:o.Cursor],
	}
}

func oneOf(allowed []any) check {
	quoted := make([]string, len(allowed))
	for i, v := range allowed {
		quoted[i] = strconv.Quote(fmt.Sprint(v))
	}

	list := strings.Join(quoted, ", ")

	return func(text string, cursor int, o Outcome[any]) *ParseError {
		for _, v := range allowed {
			if equalValue(o.Value, v) {
				return nil
			}
		}

		raw := text[cursor:o.Cursor]

		return rejected(ErrOneOf,
			"argument has to be one of the following values: "+list+
				", received "+strconv.Quote(raw)+" instead",
			text, cursor, o,
		)
	}
}

func bounds(kind Kind, minimum, maximum *float64) check {
	if kind.numeric() {
		return func(text string, cursor int, o Outcome[any]) *ParseError {
			v, ok := toFloat(o.Value)
			if !ok {
				return nil
			}

			if minimum != nil && v < *minimum {
				return rejected(ErrMin,
					"argument must be equal to or greater than "+formatNumber(*minimum),
					text, cursor, o,
				)
			}

			if maximum != nil && v > *maximum {
				return rejected(ErrMax,
					"argument must be equal to or less than "+formatNumber(*maximum),
					text, cursor, o,
				)
			}

			return nil
		}
	}

	return func(text string, cursor int, o Outcome[any]) *ParseError {
		n := float64(utf8.RuneCountInString(fmt.Sprint(o.Value)))

		if minimum != nil && n < *minimum {
			return rejected(ErrMin,
				"argument must have a minimum of "+formatNumber(*minimum)+" characters",
				text, cursor, o,
			)
		}

		if maximum != nil && n > *maximum {
			return rejected(ErrMax,
				"argument must have a maximum of "+formatNumber(*maximum)+" characters",
				text, cursor, o,
			)
		}

		return nil
	}
}

func override(msg string) func(string, Outcome[any]) error {
	return func(text string, o Outcome[any]) error {
		pe := newParseError(ErrCustom, msg, text, o.Cursor)

		if inner, ok := AsParseError(o.Err); ok {
			pe.Target = inner.Target
			pe = pe.with(slog.String("overridden", inner.Msg))
		}

		return pe
	}
}

func filter(f Filter) check {
	msg := f.Error
	if msg == "" {
		msg = "argument was rejected by filter"
	}

	return func(text string, cursor int, o Outcome[any]) *ParseError {
		if f.Predicate(o.Value) {
			return nil
		}

		return rejected(ErrFilter, msg, text, cursor, o)
	}
}

// Parse runs the argument's parser at cursor.
//
// On failure the cursor is unchanged. An argument with a default never
// fails: it yields the default value without consuming input instead.
func (a *Argument) Parse(text string, cursor int) Outcome[ArgumentResult] {
	o := a.parse.Parse(text, cursor)
	if !o.OK() {
		if a.Optional() {
			return success(a.result(a.spec.Default), cursor)
		}

		return failure[ArgumentResult](o.Err, cursor)
	}

	return success(a.result(o.Value), o.Cursor)
}

// parseRequired runs the argument's parser without applying the default.
func (a *Argument) parseRequired(text string, cursor int) Outcome[ArgumentResult] {
	o := a.parse(text, cursor)
	if !o.OK() {
		return failure[ArgumentResult](o.Err, cursor)
	}

	return success(a.result(o.Value), o.Cursor)
}

func (a *Argument) result(v any) ArgumentResult {
	return ArgumentResult{Kind: KindArgument, Name: a.spec.Name, Value: v}
}

// Name returns the argument's name.
func (a *Argument) Name() string { return a.spec.Name }

// Label returns the argument's label, which defaults to its name.
func (a *Argument) Label() string { return a.spec.Label }

// Description returns the argument's description.
func (a *Argument) Description() string { return a.spec.Description }

// Type returns the resolved (or synthesized union) value type.
func (a *Argument) Type() *ValueType { return a.vtype }

// Default returns the default value and whether one is set.
func (a *Argument) Default() (any, bool) { return a.spec.Default, a.Optional() }

// Optional reports whether the argument has a default value.
func (a *Argument) Optional() bool { return a.spec.Default != nil }

// Usage returns a short synopsis such as "<name:word>" or
// "[count:int=1]".
func (a *Argument) Usage() string {
	s := a.spec.Label + ":" + a.vtype.Name
	if a.Optional() {
		return "[" + s + "=" + fmt.Sprint(a.spec.Default) + "]"
	}

	return "<" + s + ">"
}

// equalValue compares a parsed value with an allow-list entry. Numbers are
// compared numerically, everything else by its printed form.
func equalValue(parsed, allowed any) bool {
	if a, ok := toFloat(parsed); ok {
		if b, ok := toFloat(allowed); ok {
			return a == b
		}
	}

	return fmt.Sprint(parsed) == fmt.Sprint(allowed)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
