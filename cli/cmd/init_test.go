package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initContext returns a context holding a kong context parsed from cli with
// the configuration path confPath.
func initContext(t *testing.T, cli any, confPath string, args ...string) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), kctx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, existing: true},
		{name: "fail_without_force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "nested", "config")

			if tt.existing {
				if err := os.MkdirAll(filepath.Dir(confPath), 0o755); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(confPath, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct{}

			err := (&Init{Force: tt.force}).Run(initContext(t, &cli, confPath))
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if tt.wantErr != nil {
				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Errorf("generated config is not valid YAML: %v", err)
			}

			if _, ok := doc[ConfigKey]; !ok {
				t.Errorf("expected top-level %q key, got %q", ConfigKey, content)
			}
		})
	}
}

// TestInitValues tests that current flag values are written in declaration
// order, skipping help, profiling and unset flags.
func TestInitValues(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose  bool     `help:"Enable verbose output" name:"verbose"`
		Output   string   `help:"Output file"           name:"output"`
		Count    int      `help:"Number of items"       name:"count"`
		Manifest []string `help:"Manifests"             name:"manifest"`
		Empty    []string `help:"Unset list"            name:"empty"`
		Mode     string   `help:"Profiling mode"        name:"pprof-mode"`
	}

	ctx := initContext(t, &cli, "unused",
		"--verbose", "--count=3", "--manifest=a.yaml", "--manifest=b.yaml", "--pprof-mode=cpu")

	got := (&Init{}).values(kongContextFrom(ctx))

	want := []string{"verbose", "count", "manifest"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}

	for i, item := range got {
		if item.Key != want[i] {
			t.Errorf("entry %d: expected %q, got %v", i, want[i], item.Key)
		}
	}

	data, err := yaml.Marshal(yaml.MapSlice{{Key: ConfigKey, Value: got}})
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Config struct {
			Verbose  bool     `yaml:"verbose"`
			Count    int      `yaml:"count"`
			Manifest []string `yaml:"manifest"`
		} `yaml:"config"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}

	if !doc.Config.Verbose || doc.Config.Count != 3 || len(doc.Config.Manifest) != 2 {
		t.Errorf("unexpected config: %+v", doc.Config)
	}
}

// TestInitWithInvalidPath tests that an unwritable path is reported.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var cli struct{}

	err := (&Init{}).Run(initContext(t, &cli, filepath.Join(blocker, "config")))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("expected %v, got %v", ErrWriteConfig, err)
	}
}
