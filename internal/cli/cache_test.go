package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rcd/pkg/cache"
	"github.com/matzehuels/rcd/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "rcd")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "rcd"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = "~/experiments/cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "experiments", "cache"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"~", home},
		{"~/x", filepath.Join(home, "x")},
		{"/abs/path", "/abs/path"},
		{"rel/~", "rel/~"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		got, err := expandHome(tt.in)
		if err != nil {
			t.Fatalf("expandHome(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewCacheSelection(t *testing.T) {
	ctx := context.Background()

	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Cache.Dir = t.TempDir()

	got, err := c.newCache(ctx, cacheFlags{})
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("default cache = %T, want *cache.FileCache", got)
	}

	got, err = c.newCache(ctx, cacheFlags{noCache: true})
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("--no-cache = %T, want cache.NullCache", got)
	}

	c.Config = &config.Config{Cache: config.Cache{NoCache: true}}
	got, _ = c.newCache(ctx, cacheFlags{})
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("no_cache config = %T, want cache.NullCache", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	fc, err := cache.NewFileCache(filepath.Join(xdg, "rcd"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"boundary:a", "skeleton:b"} {
		if err := fc.Set(ctx, key, []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(xdg, "rcd"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
}
