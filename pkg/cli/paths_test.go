package cli

import (
	"path/filepath"
	"testing"
)

func TestPathsLayout(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	p, err := NewPaths("hearsay")
	if err != nil {
		t.Fatalf("NewPaths() error = %v", err)
	}

	base := filepath.Join("/home/alice", DefaultBaseDir)
	if got := p.BaseDir(); got != base {
		t.Errorf("BaseDir() = %q, want %q", got, base)
	}
	if got, want := p.AppDir(), filepath.Join(base, "hearsay"); got != want {
		t.Errorf("AppDir() = %q, want %q", got, want)
	}
	if got, want := p.ConfigFile(), filepath.Join(base, "hearsay", DefaultConfigFile); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}
