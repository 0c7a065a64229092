package syntax

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func mustArgument(t testing.TB, spec ArgumentSpec, reg *Registry) *Argument {
	t.Helper()

	a, err := CompileArgument(spec, reg)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	return a
}

func TestArgument_RangedInt(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name: "n",
		Type: []string{TypeInt},
		Min:  Bound(-30),
		Max:  Bound(50),
	}, nil)

	tests := []struct {
		name     string
		input    string
		want     any
		sentinel *Error
		msg      string
	}{
		{"lower bound", "-30", -30, nil, ""},
		{"upper bound", "50", 50, nil, ""},
		{"inside", "7", 7, nil, ""},
		{"below", "-31", nil, ErrMin, "argument must be equal to or greater than -30"},
		{"above", "51", nil, ErrMax, "argument must be equal to or less than 50"},
		{"not an int", "abc", nil, ErrMismatch, "argument is not an int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := a.Parse(tt.input, 0)

			if tt.sentinel != nil {
				if !errors.Is(o.Err, tt.sentinel) {
					t.Fatalf("expected %v, got %v", tt.sentinel, o.Err)
				}

				if pe := o.ParseError(); pe.Msg != tt.msg {
					t.Errorf("expected %q, got %q", tt.msg, pe.Msg)
				}

				if o.Cursor != 0 {
					t.Errorf("expected cursor to stay at 0, got %d", o.Cursor)
				}

				return
			}

			if !o.OK() {
				t.Fatalf("unexpected failure: %v", o.Err)
			}

			if o.Value.Value != tt.want {
				t.Errorf("expected %v, got %v", tt.want, o.Value.Value)
			}

			if o.Value.Kind != KindArgument || o.Value.Name != "n" {
				t.Errorf("unexpected result metadata: %+v", o.Value)
			}
		})
	}
}

func TestArgument_RefinementTarget(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name: "n",
		Type: []string{TypeInt},
		Max:  Bound(9),
	}, nil)

	pe := a.Parse("x 12 y", 2).ParseError()
	if pe == nil {
		t.Fatal("expected failure")
	}

	if pe.Target != "12" {
		t.Errorf("expected %q, got %q", "12", pe.Target)
	}

	if pe.Index != 2 {
		t.Errorf("expected index 2, got %d", pe.Index)
	}
}

func TestArgument_RangedTextLength(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name: "msg",
		Type: []string{TypeText},
		Min:  Bound(10),
		Max:  Bound(50),
	}, nil)

	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"short", "too short", "argument must have a minimum of 10 characters"},
		{"exact minimum", "0123456789", ""},
		{"runes not bytes", `"ééééééééé"`, "argument must have a minimum of 10 characters"},
		{
			"long",
			"this message goes on and on and on for far too many characters",
			"argument must have a maximum of 50 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := a.Parse(tt.input, 0)

			if tt.msg == "" {
				if !o.OK() {
					t.Fatalf("unexpected failure: %v", o.Err)
				}

				return
			}

			pe := o.ParseError()
			if pe == nil {
				t.Fatalf("expected failure, got %v", o.Value.Value)
			}

			if pe.Msg != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, pe.Msg)
			}
		})
	}
}

func TestArgument_OneOf(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:  "greeting",
		Type:  []string{TypeText},
		OneOf: []any{"hello!", "shindeiru"},
	}, nil)

	tests := []struct {
		name  string
		input string
		want  string
		msg   string
	}{
		{"double quoted", `"hello!" said the man`, "hello!", ""},
		{"backticks", "`shindeiru`", "shindeiru", ""},
		{
			"rejected",
			`"nope" then`,
			"",
			`argument has to be one of the following values: "hello!", "shindeiru", received "\"nope\"" instead`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := a.Parse(tt.input, 0)

			if tt.msg != "" {
				if !errors.Is(o.Err, ErrOneOf) {
					t.Fatalf("expected ErrOneOf, got %v", o.Err)
				}

				if pe := o.ParseError(); pe.Msg != tt.msg {
					t.Errorf("expected %q, got %q", tt.msg, pe.Msg)
				}

				return
			}

			if !o.OK() {
				t.Fatalf("unexpected failure: %v", o.Err)
			}

			if o.Value.Value != tt.want {
				t.Errorf("expected %q, got %q", tt.want, o.Value.Value)
			}
		})
	}
}

func TestArgument_OneOfNumeric(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:  "level",
		Type:  []string{TypeInt},
		OneOf: []any{uint64(1), 2.0, "3"},
	}, nil)

	for _, input := range []string{"1", "2", "3"} {
		if o := a.Parse(input, 0); !o.OK() {
			t.Errorf("expected %q to be allowed, got %v", input, o.Err)
		}
	}

	if o := a.Parse("4", 0); !errors.Is(o.Err, ErrOneOf) {
		t.Errorf("expected ErrOneOf, got %v", o.Err)
	}
}

func TestArgument_Union(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name: "id",
		Type: []string{TypeInt, TypeWord},
	}, nil)

	if got := a.Type().Name; got != "int|word" {
		t.Errorf("expected %q, got %q", "int|word", got)
	}

	if got := a.Type().Label; got != "int | word" {
		t.Errorf("expected %q, got %q", "int | word", got)
	}

	if got := a.Type().Kind; got != KindOther {
		t.Errorf("expected %v, got %v", KindOther, got)
	}

	tests := []struct {
		input string
		want  any
	}{
		{"42", 42},
		{"abc", "abc"},
		{"12abc", 12},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o := a.Parse(tt.input, 0)
			if !o.OK() {
				t.Fatalf("unexpected failure: %v", o.Err)
			}

			if o.Value.Value != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, o.Value.Value)
			}
		})
	}

	pe := a.Parse("-", 0).ParseError()
	if pe == nil {
		t.Fatal("expected failure")
	}

	if want := "argument is not any of int, word"; pe.Msg != want {
		t.Errorf("expected %q, got %q", want, pe.Msg)
	}

	if inner := pe.Innermost(); inner.Msg != "argument is not a word" {
		t.Errorf("expected last alternative failure, got %q", inner.Msg)
	}
}

func TestArgument_ErrorOverride(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:  "answer",
		Type:  []string{TypeInt},
		Max:   Bound(3),
		Error: "pick an answer between 1 and 3",
	}, nil)

	for _, input := range []string{"x", "4"} {
		t.Run(input, func(t *testing.T) {
			o := a.Parse(input, 0)
			if !errors.Is(o.Err, ErrCustom) {
				t.Fatalf("expected ErrCustom, got %v", o.Err)
			}

			pe := o.ParseError()
			if pe.Msg != "pick an answer between 1 and 3" {
				t.Errorf("expected %q, got %q", "pick an answer between 1 and 3", pe.Msg)
			}

			if pe.Cause != nil {
				t.Errorf("expected no cause, got %v", pe.Cause)
			}
		})
	}
}

func TestArgument_Filter(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:  "name",
		Type:  []string{TypeWord},
		Error: "not a name",
		Filter: &Filter{
			Predicate: func(v any) bool { return len(v.(string)) > 2 },
			Error:     "name is too short",
		},
	}, nil)

	if o := a.Parse("bob", 0); !o.OK() {
		t.Errorf("unexpected failure: %v", o.Err)
	}

	o := a.Parse("al", 0)
	if !errors.Is(o.Err, ErrFilter) {
		t.Fatalf("expected ErrFilter, got %v", o.Err)
	}

	if pe := o.ParseError(); pe.Msg != "name is too short" || pe.Target != "al" {
		t.Errorf("unexpected filter failure: %+v", pe)
	}

	if pe := a.Parse("!", 0).ParseError(); pe.Msg != "not a name" {
		t.Errorf("expected %q, got %q", "not a name", pe.Msg)
	}

	b := mustArgument(t, ArgumentSpec{
		Name:   "name",
		Type:   []string{TypeWord},
		Filter: &Filter{Predicate: func(any) bool { return false }},
	}, nil)

	if pe := b.Parse("x", 0).ParseError(); pe.Msg != "argument was rejected by filter" {
		t.Errorf("expected default filter message, got %q", pe.Msg)
	}
}

func TestArgument_Default(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:    "count",
		Type:    []string{TypeInt},
		Default: 7,
	}, nil)

	if !a.Optional() {
		t.Error("expected argument with default to be optional")
	}

	o := a.Parse("x", 0)
	if !o.OK() {
		t.Fatalf("unexpected failure: %v", o.Err)
	}

	if o.Value.Value != 7 || o.Cursor != 0 {
		t.Errorf("expected default 7 at cursor 0, got %v at %d", o.Value.Value, o.Cursor)
	}

	if got := a.Usage(); got != "[count:int=7]" {
		t.Errorf("expected %q, got %q", "[count:int=7]", got)
	}
}

func TestCompileArgument_Errors(t *testing.T) {
	reg, err := Builtins().Extend(custom("color"))
	if err != nil {
		t.Fatalf("extend error: %v", err)
	}

	tests := []struct {
		name string
		spec ArgumentSpec
		want *Error
	}{
		{"empty name", ArgumentSpec{Type: []string{TypeWord}}, ErrInvalidArgument},
		{"no type", ArgumentSpec{Name: "a"}, ErrInvalidArgument},
		{"unknown type", ArgumentSpec{Name: "a", Type: []string{"nope"}}, ErrTypeNotFound},
		{
			"oneOf with min",
			ArgumentSpec{Name: "a", Type: []string{TypeInt}, OneOf: []any{1}, Min: Bound(0)},
			ErrIncompatibleRefinement,
		},
		{
			"oneOf with max",
			ArgumentSpec{Name: "a", Type: []string{TypeWord}, OneOf: []any{"x"}, Max: Bound(3)},
			ErrIncompatibleRefinement,
		},
		{
			"oneOf on union",
			ArgumentSpec{Name: "a", Type: []string{TypeInt, TypeWord}, OneOf: []any{1}},
			ErrUnionRefinement,
		},
		{
			"min on union",
			ArgumentSpec{Name: "a", Type: []string{TypeInt, TypeFloat}, Min: Bound(1)},
			ErrUnionRefinement,
		},
		{
			"max on custom kind",
			ArgumentSpec{Name: "a", Type: []string{"color"}, Max: Bound(1)},
			ErrRefinementKind,
		},
		{
			"min greater than max",
			ArgumentSpec{Name: "a", Type: []string{TypeInt}, Min: Bound(5), Max: Bound(1)},
			ErrInvalidArgument,
		},
		{
			"filter without predicate",
			ArgumentSpec{Name: "a", Type: []string{TypeWord}, Filter: &Filter{Error: "too short"}},
			ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := CompileArgument(tt.spec, reg)
			if a != nil {
				t.Error("expected nil argument on error")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	want := "min/max options are incompatible with oneOf"
	_, err = CompileArgument(tests[3].spec, reg)

	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestArgument_CanonicalRoundTrip(t *testing.T) {
	ints := mustArgument(t, ArgumentSpec{
		Name: "i", Type: []string{TypeInt}, Min: Bound(-30), Max: Bound(50),
	}, nil)

	for v := -30; v <= 50; v++ {
		o := ints.Parse(strconv.Itoa(v), 0)
		if !o.OK() || o.Value.Value != v {
			t.Errorf("expected %d, got %v (%v)", v, o.Value.Value, o.Err)
		}
	}

	floats := mustArgument(t, ArgumentSpec{
		Name: "f", Type: []string{TypeFloat}, Min: Bound(-2), Max: Bound(2),
	}, nil)

	for v := -2.0; v <= 2.0; v += 0.125 {
		for _, format := range []byte{'f', 'g', 'e'} {
			text := strconv.FormatFloat(v, format, -1, 64)

			o := floats.Parse(text, 0)
			if !o.OK() || o.Value.Value != v || o.Cursor != len(text) {
				t.Errorf("expected %v from %q, got %v at %d (%v)", v, text, o.Value.Value, o.Cursor, o.Err)
			}
		}
	}

	// Exponent forms of values far from zero read back without trailing input.
	unbounded := mustArgument(t, ArgumentSpec{Name: "f", Type: []string{TypeFloat}}, nil)

	for _, v := range []float64{1e21, 1e-7, -3.5e100, 6.02214076e23} {
		text := strconv.FormatFloat(v, 'g', -1, 64)

		o := unbounded.Parse(text, 0)
		if !o.OK() || o.Value.Value != v || o.Cursor != len(text) {
			t.Errorf("expected %v from %q, got %v at %d (%v)", v, text, o.Value.Value, o.Cursor, o.Err)
		}
	}
}

func TestArgument_Parse_Pure(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name: "n", Type: []string{TypeInt, TypeWord}, Default: nil,
	}, nil)

	for _, input := range []string{"12 x", "word", "--"} {
		first := a.Parse(input, 0)
		second := a.Parse(input, 0)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("expected identical outcomes for %q: %+v != %+v", input, first, second)
		}
	}
}

func TestArgument_Usage(t *testing.T) {
	a := mustArgument(t, ArgumentSpec{
		Name:  "who",
		Label: "person",
		Type:  []string{TypeWord},
	}, nil)

	if got := a.Usage(); got != "<person:word>" {
		t.Errorf("expected %q, got %q", "<person:word>", got)
	}

	if got := a.Label(); got != "person" {
		t.Errorf("expected %q, got %q", "person", got)
	}

	b := mustArgument(t, ArgumentSpec{Name: "who", Type: []string{TypeWord}}, nil)
	if got := b.Label(); got != "who" {
		t.Errorf("expected label to default to name, got %q", got)
	}
}
