package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestUserDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ok := func() (string, error) { return "/base", nil }
	fail := func() (string, error) { return "", errors.New("unset") }

	if got, want := userDir(ok, ".x"), filepath.Join("/base", basePrefix()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got := userDir(fail, ".fallback")
	if !strings.HasSuffix(got, filepath.Join(".fallback", basePrefix())) {
		t.Errorf("expected home fallback, got %q", got)
	}
}

func TestBasePrefix_NotEmpty(t *testing.T) {
	if basePrefix() == "" {
		t.Error("expected a non-empty executable identifier")
	}
}
