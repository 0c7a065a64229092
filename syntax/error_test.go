package syntax

import (
	"errors"
	"log/slog"
	"testing"
)

func TestError_WrapAndIs(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrInvalidOption.Wrap(cause).With(slog.String("option", "x"))

	if !errors.Is(err, ErrInvalidOption) {
		t.Error("expected wrapped error to match its sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match its cause")
	}

	if errors.Is(err, ErrInvalidCommand) {
		t.Error("expected wrapped error not to match another sentinel")
	}

	if want := "invalid option: root cause"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	v := err.LogValue()
	if v.Kind() != slog.KindGroup || len(v.Group()) != 3 {
		t.Errorf("expected group of 3 attributes, got %v", v)
	}

	if WrapError(err) != err {
		t.Error("expected WrapError to return an existing *Error unchanged")
	}
}

func TestParseError_Chain(t *testing.T) {
	inner := newParseError(ErrMismatch, "argument is not an int", "a x", 2)
	outer := newParseError(ErrCommandArgument, "argument n°2 from command \"c\" is invalid", "a x", 2).
		wrap(inner).
		with(slog.Int("argument", 2))

	if !errors.Is(outer, ErrCommandArgument) || !errors.Is(outer, ErrMismatch) {
		t.Error("expected both categories to be reachable")
	}

	want := "argument n°2 from command \"c\" is invalid: argument is not an int"
	if outer.Error() != want {
		t.Errorf("expected %q, got %q", want, outer.Error())
	}

	if outer.Innermost() != inner {
		t.Error("expected innermost failure to be the nested error")
	}

	if outer.Target != "x" || outer.Index != 2 {
		t.Errorf("expected target %q at 2, got %q at %d", "x", outer.Target, outer.Index)
	}

	if len(outer.Attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(outer.Attrs))
	}

	pe, ok := AsParseError(outer)
	if !ok || pe != outer {
		t.Error("expected AsParseError to return the outermost failure")
	}

	if _, ok := AsParseError(errors.New("plain")); ok {
		t.Error("expected plain error not to be a parse error")
	}
}
