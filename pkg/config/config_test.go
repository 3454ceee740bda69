package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/rcd/pkg/errors"
)

const sample = `
[learn]
algorithm = "rslw"
alpha = 0.05
clique_number = 3
boundary = "precision"
formats = ["json", "svg"]

[generate]
vars = 30
edge_prob = 0.1
samples = 2000
seed = 7

[cache]
dir = "/tmp/rcd-cache"
no_cache = true

[server]
addr = ":9090"
read_timeout = "2s"
`

func TestParse(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	cfg, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Learn.Algorithm != "rslw" || cfg.Learn.Alpha != 0.05 || cfg.Learn.CliqueNumber != 3 {
		t.Errorf("learn = %+v", cfg.Learn)
	}
	if len(cfg.Learn.Formats) != 2 || cfg.Learn.Formats[1] != "svg" {
		t.Errorf("formats = %v", cfg.Learn.Formats)
	}
	if cfg.Generate.Vars != 30 || cfg.Generate.Seed != 7 || cfg.Generate.Samples != 2000 {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if !cfg.Cache.NoCache || cfg.Cache.Dir != "/tmp/rcd-cache" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Learn.Alpha != 0 {
		t.Errorf("Alpha = %v, want unset", cfg.Learn.Alpha)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[learn\nalpha = 1"},
		{"unknown key", "[learn]\nalfa = 0.1"},
		{"alpha", "[learn]\nalpha = 1.5"},
		{"clique", "[learn]\nclique_number = -1"},
		{"boundary", "[learn]\nboundary = \"iamb\""},
		{"edge prob", "[generate]\nedge_prob = 2.0"},
		{"timeout", "[server]\nread_timeout = \"-1s\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsInvalid(err) {
				t.Errorf("error %v is not an invalid-input error", err)
			}
		})
	}
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv(EnvRedisAddr, "redis:6379")
	cfg, err := Parse("[cache]\nredis_addr = \"localhost:6379\"")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %q, want env value", cfg.Cache.RedisAddr)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Learn.Boundary != "precision" {
		t.Errorf("Boundary = %q", cfg.Learn.Boundary)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	cfg, err = Load("")
	if err != nil || cfg.Server.Addr != DefaultAddr {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}
