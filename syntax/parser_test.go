package syntax

import (
	"errors"
	"testing"
)

func TestChoice_FirstSuccessWins(t *testing.T) {
	p := Choice(Literal("a"), Literal("ab"))

	o := p.Parse("abc", 0)
	if !o.OK() {
		t.Fatalf("unexpected failure: %v", o.Err)
	}

	if o.Value != "a" || o.Cursor != 1 {
		t.Errorf("expected %q at 1, got %q at %d", "a", o.Value, o.Cursor)
	}
}

func TestChoice_LastFailureReturned(t *testing.T) {
	p := Choice(Literal("x"), Literal("y"))

	pe := p.Parse("z", 0).ParseError()
	if pe == nil {
		t.Fatal("expected failure")
	}

	if pe.Msg != `expected "y"` {
		t.Errorf("expected %q, got %q", `expected "y"`, pe.Msg)
	}

	if pe := Choice[string]().Parse("z", 0).ParseError(); pe == nil {
		t.Error("expected empty choice to fail")
	}
}

func TestParser_OutOfRange(t *testing.T) {
	for _, cursor := range []int{-1, 4} {
		o := Literal("a").Parse("abc", cursor)
		if !errors.Is(o.Err, ErrMismatch) {
			t.Errorf("expected ErrMismatch for cursor %d, got %v", cursor, o.Err)
		}

		if o.Cursor != cursor {
			t.Errorf("expected cursor %d, got %d", cursor, o.Cursor)
		}
	}
}

func TestMap(t *testing.T) {
	p := Map(Literal("on"), func(string) bool { return true })

	if o := p.Parse("on", 0); !o.OK() || !o.Value || o.Cursor != 2 {
		t.Errorf("unexpected outcome: %+v", o)
	}

	if o := p.Parse("off", 0); o.OK() || o.Cursor != 0 {
		t.Errorf("expected failure at 0, got %+v", o)
	}
}

func TestWhitespace(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		ok     bool
	}{
		{" \t\nx", 3, true},
		{"x", 0, false},
		{"", 0, false},
		{" y", 2, true},
	}

	for _, tt := range tests {
		o := Whitespace().Parse(tt.input, 0)
		if o.OK() != tt.ok || o.Cursor != tt.cursor {
			t.Errorf("%q: expected ok=%v at %d, got %+v", tt.input, tt.ok, tt.cursor, o)
		}
	}
}

func TestMapError(t *testing.T) {
	sentinel := errors.New("replaced")

	p := Literal("a").MapError(func(string, Outcome[string]) error { return sentinel })

	if o := p.Parse("b", 0); !errors.Is(o.Err, sentinel) {
		t.Errorf("expected replaced error, got %v", o.Err)
	}

	if o := p.Parse("a", 0); !o.OK() {
		t.Errorf("expected success to pass through, got %v", o.Err)
	}
}
