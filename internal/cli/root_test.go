package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/rcd/pkg/buildinfo"
	"github.com/matzehuels/rcd/pkg/errors"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"generate", "learn", "bench", "render", "cache", "serve", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out.String(), "rcd version "+buildinfo.Version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.toml")
	cfg := "[learn]\nalgorithm = \"rslw\"\nclique_number = 3\n\n[cache]\nno_cache = true\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c.Config.Learn.Algorithm != "rslw" || c.Config.Learn.CliqueNumber != 3 {
		t.Errorf("learn config = %+v", c.Config.Learn)
	}
	if !c.Config.Cache.NoCache {
		t.Error("cache.no_cache not loaded")
	}
}

func TestRootCommandBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.toml")
	if err := os.WriteFile(path, []byte("[learn]\nalgoritm = \"rslw\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "cache", "path"})

	err := root.Execute()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() = %v, want INVALID_CONFIG", err)
	}
}

func TestRootCommandVerbose(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"-v", "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestFlagCompletionsRegistered(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	learn, _, err := root.Find([]string{"learn"})
	if err != nil {
		t.Fatalf("Find(learn): %v", err)
	}
	for _, flag := range []string{"algorithm", "boundary", "format"} {
		if _, ok := learn.GetFlagCompletionFunc(flag); !ok {
			t.Errorf("learn --%s has no completion function", flag)
		}
	}
}
