package syntax

import (
	"errors"
	"testing"
)

func TestBuiltins_Names(t *testing.T) {
	want := []string{TypeWord, TypeText, TypeInt, TypeFloat}
	got := Builtins().Names()

	if len(got) != len(want) {
		t.Fatalf("expected %d types, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected type %d to be %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBuiltins_Parse(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		input  string
		value  any
		cursor int
		errMsg string
	}{
		{"word simple", TypeWord, "hello world", "hello", 5, ""},
		{"word unicode and underscore", TypeWord, "hé_1-x", "hé_1", 5, ""},
		{"word stops at dash", TypeWord, "-x", nil, 0, "argument is not a word"},
		{"word empty", TypeWord, "", nil, 0, "argument is not a word"},
		{"text double quoted", TypeText, `"hello!" and more`, "hello!", 8, ""},
		{"text single quoted", TypeText, `'a b' c`, "a b", 5, ""},
		{"text backticks", TypeText, "`shindeiru` omae", "shindeiru", 11, ""},
		{"text unquoted rest", TypeText, "plain rest", "plain rest", 10, ""},
		{"text unterminated quote", TypeText, `"open end`, `"open end`, 9, ""},
		{"text empty quotes", TypeText, `"" x`, "", 2, ""},
		{"text empty", TypeText, "", nil, 0, "argument is not a text"},
		{"int positive", TypeInt, "42 apples", 42, 2, ""},
		{"int negative", TypeInt, "-30", -30, 3, ""},
		{"int plus zero", TypeInt, "+0", 0, 2, ""},
		{"int stops at dot", TypeInt, "4.5", 4, 1, ""},
		{"int sign only", TypeInt, "-", nil, 0, "argument is not an int"},
		{"int letters", TypeInt, "x1", nil, 0, "argument is not an int"},
		{"int overflow", TypeInt, "99999999999999999999", nil, 0, "argument is not an int"},
		{"float fraction", TypeFloat, "3.14", 3.14, 4, ""},
		{"float integer", TypeFloat, "-2 x", -2.0, 2, ""},
		{"float trailing dot", TypeFloat, "1.", 1.0, 1, ""},
		{"float dot without digits", TypeFloat, "1.x", 1.0, 1, ""},
		{"float leading dot", TypeFloat, ".5", nil, 0, "argument is not a float"},
		{"float exponent", TypeFloat, "1e+21", 1e21, 5, ""},
		{"float negative exponent", TypeFloat, "1e-07 s", 1e-7, 5, ""},
		{"float fraction exponent", TypeFloat, "2.5E3", 2500.0, 5, ""},
		{"float exponent without digits", TypeFloat, "1e", 1.0, 1, ""},
		{"float exponent sign only", TypeFloat, "1e+x", 1.0, 1, ""},
		{"float exponent out of range", TypeFloat, "1e999", nil, 0, "argument is not a float"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vt, err := Builtins().Lookup(tt.typ)
			if err != nil {
				t.Fatalf("lookup error: %v", err)
			}

			o := vt.Parse.Parse(tt.input, 0)

			if tt.errMsg != "" {
				pe := o.ParseError()
				if pe == nil {
					t.Fatalf("expected failure, got value %#v", o.Value)
				}

				if pe.Msg != tt.errMsg {
					t.Errorf("expected %q, got %q", tt.errMsg, pe.Msg)
				}

				if !errors.Is(o.Err, ErrMismatch) {
					t.Errorf("expected ErrMismatch, got %v", o.Err)
				}

				if pe.Target != tt.input {
					t.Errorf("expected target %q, got %q", tt.input, pe.Target)
				}

				if o.Cursor != tt.cursor {
					t.Errorf("expected cursor %d, got %d", tt.cursor, o.Cursor)
				}

				return
			}

			if !o.OK() {
				t.Fatalf("unexpected failure: %v", o.Err)
			}

			if o.Value != tt.value {
				t.Errorf("expected %#v, got %#v", tt.value, o.Value)
			}

			if o.Cursor != tt.cursor {
				t.Errorf("expected cursor %d, got %d", tt.cursor, o.Cursor)
			}
		})
	}
}

func TestBuiltins_ParseAtOffset(t *testing.T) {
	o := Int().Parse.Parse("count: 12", 7)
	if !o.OK() {
		t.Fatalf("unexpected failure: %v", o.Err)
	}

	if o.Value != 12 || o.Cursor != 9 {
		t.Errorf("expected 12 at 9, got %v at %d", o.Value, o.Cursor)
	}

	o = Word().Parse.Parse("ab !", 3)
	if pe := o.ParseError(); pe == nil || pe.Index != 3 || pe.Target != "!" {
		t.Errorf("expected failure at 3 with target %q, got %+v", "!", pe)
	}
}
