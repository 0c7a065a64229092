package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cmdsyntax/extra"
	"github.com/ardnew/cmdsyntax/syntax"
)

const testManifest = `
prefix: "!"
commands:
  - name: greet
    description: Say hello
    arguments:
      - name: who
        type: word
        default: world
    options:
      - name: loud
        short: l
    action: '"hello " + args.who + (has(opts, "loud") ? "!" : "")'
  - name: add
    arguments:
      - name: a
        type: int
      - name: b
        type: int
    action: args.a + args.b
`

// commandContext returns a context with a manifest holding testManifest and
// kong writers capturing the command output.
func commandContext(t *testing.T) (ctx context.Context, out, errOut *bytes.Buffer) {
	t.Helper()

	path := writeFile(t, filepath.Join(t.TempDir(), "cmds.yaml"), testManifest)

	out, errOut = new(bytes.Buffer), new(bytes.Buffer)

	var cli struct{}

	parser, err := kong.New(&cli, kong.Writers(out, errOut))
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx = WithContext(context.Background(), kctx)
	ctx = WithManifests(ctx, []string{path})

	return ctx, out, errOut
}

func TestExecRun(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		in         string
		keepGoing  bool
		want       string
		wantErr    bool
		wantStderr string
	}{
		{
			name:  "arguments",
			lines: []string{"!greet", "!greet bob --loud", "!add 2 3"},
			want:  "hello world\nhello bob!\n5\n",
		},
		{
			name: "stdin",
			in:   "!greet ann\n\nnot for us\n!add 1 1\n",
			want: "hello ann\n2\n",
		},
		{
			name:       "stop at first failure",
			lines:      []string{"!add 1", "!greet"},
			wantErr:    true,
			wantStderr: "line 1:",
		},
		{
			name:       "keep going",
			lines:      []string{"!add 1", "!greet", "!gret"},
			keepGoing:  true,
			want:       "hello world\n",
			wantErr:    true,
			wantStderr: "did you mean: greet?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := commandContext(t)

			e := &Exec{Lines: tt.lines, KeepGoing: tt.keepGoing, in: strings.NewReader(tt.in)}

			err := e.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if err != nil && !errors.Is(err, ErrRunLine) {
				t.Errorf("expected %v, got %v", ErrRunLine, err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if !strings.Contains(errOut.String(), tt.wantStderr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantStderr, errOut.String())
			}
		})
	}
}

func TestExecRun_TrailingInput(t *testing.T) {
	ctx, out, _ := commandContext(t)

	if err := (&Exec{Lines: []string{"!add 1 2 3"}}).Run(ctx); !errors.Is(err, syntax.ErrTrailingInput) {
		t.Errorf("expected %v, got %v", syntax.ErrTrailingInput, err)
	}

	out.Reset()

	if err := (&Exec{Lines: []string{"!add 1 2 3"}, Lenient: true}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "3\n" {
		t.Errorf("expected %q, got %q", "3\n", got)
	}
}

func TestParseRun_JSON(t *testing.T) {
	ctx, out, _ := commandContext(t)

	p := &Parse{Format: FormatJSON, Indent: 0, Lines: []string{"!greet -l bob"}}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var res syntax.CommandResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}

	if res.Command != "greet" {
		t.Errorf("expected command %q, got %q", "greet", res.Command)
	}

	if who, _ := res.Arg("who"); who != "bob" {
		t.Errorf("expected who %q, got %v", "bob", who)
	}

	if n := res.OptionCount("loud"); n != 1 {
		t.Errorf("expected 1 loud option, got %d", n)
	}

	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("expected compact output on one line, got %q", out.String())
	}
}

func TestParseRun_YAML(t *testing.T) {
	ctx, out, _ := commandContext(t)

	p := &Parse{Format: FormatYAML, Indent: 2, Lines: []string{"!add 4 5", "!greet"}}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs := strings.Split(strings.TrimPrefix(out.String(), "---\n"), "---\n")
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d: %q", len(docs), out.String())
	}

	var res syntax.CommandResult
	if err := yaml.Unmarshal([]byte(docs[0]), &res); err != nil {
		t.Fatalf("invalid YAML %q: %v", docs[0], err)
	}

	if res.Command != "add" || len(res.Arguments) != 2 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestParseRun_InvalidFormat(t *testing.T) {
	ctx, _, _ := commandContext(t)

	err := (&Parse{Format: "toml", Lines: []string{"!greet"}}).Run(ctx)
	if !errors.Is(err, ErrMarshal) {
		t.Errorf("expected %v, got %v", ErrMarshal, err)
	}
}

func TestCheckRun(t *testing.T) {
	ctx, out, _ := commandContext(t)

	if err := (&Check{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"!greet", "greet [who:word=world] [--loud|-l]", "Say hello",
		"!add", "add <a:int> <b:int>",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestCheckRun_Print(t *testing.T) {
	ctx, out, _ := commandContext(t)

	if err := (&Check{Print: true}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"prefix: '!'", "name: greet", "name: add"} {
		if !strings.Contains(out.String(), want) && !strings.Contains(out.String(), strings.ReplaceAll(want, "'", `"`)) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestTypesRun(t *testing.T) {
	ctx, out, _ := commandContext(t)

	if err := (Types{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"word", "text", "int", "float", extra.TypeUint, extra.TypeTimestamp} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("expected output to contain %q, got:\n%s", name, out.String())
		}
	}
}
