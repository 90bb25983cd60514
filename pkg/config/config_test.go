package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv("FLOORPACK_REDIS_ADDR", "")
	t.Setenv("FLOORPACK_MONGO_URI", "")
	path := writeConfig(t, `
[solver]
model = "coord"
rotation = true
symmetry = false
timeout = "90s"
order = "asc"

[cache]
backend = "none"

[batch]
workers = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.Model != "coord" || !cfg.Solver.Rotation || cfg.Solver.Order != "asc" {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if time.Duration(cfg.Solver.Timeout) != 90*time.Second {
		t.Errorf("timeout = %v", time.Duration(cfg.Solver.Timeout))
	}
	if cfg.Cache.Backend != CacheNone || cfg.Batch.Workers != 3 {
		t.Errorf("cache/batch = %+v / %+v", cfg.Cache, cfg.Batch)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset sections should keep defaults, got addr %q", cfg.Server.Addr)
	}

	opts := cfg.Options()
	if !opts.NoSymmetry || opts.NoIdenticalSymmetry {
		t.Errorf("symmetry flags = %v/%v", opts.NoSymmetry, opts.NoIdenticalSymmetry)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Model != "coord" || opts.Order != "asc" {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FLOORPACK_REDIS_ADDR", "")
	t.Setenv("FLOORPACK_MONGO_URI", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should load defaults: %v", err)
	}
	if cfg.Solver.Model != Default().Solver.Model || cfg.Cache.Backend != CacheFile {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("FLOORPACK_REDIS_ADDR", "")
	tests := map[string]string{
		"syntax":        "[solver\nmodel = 1",
		"unknown key":   "[solver]\nmodle = \"cell\"\n",
		"bad model":     "[solver]\nmodel = \"hexagon\"\n",
		"bad backend":   "[cache]\nbackend = \"memcached\"\n",
		"redis no addr": "[cache]\nbackend = \"redis\"\n",
		"bad timeout":   "[solver]\ntimeout = \"soon\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FLOORPACK_REDIS_ADDR", "cache:6379")
	t.Setenv("FLOORPACK_MONGO_URI", "mongodb://db:27017")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}

	cfg = Default()
	cfg.Cache.Backend = CacheNone
	cfg.ApplyEnv()
	if cfg.Cache.Backend != CacheNone {
		t.Error("an explicit none backend should not be switched to redis")
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/custom-config", appName) {
		t.Errorf("Dir() = %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = Dir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".config", appName) {
		t.Errorf("Dir() = %q", dir)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Setenv("FLOORPACK_REDIS_ADDR", "")
	t.Setenv("FLOORPACK_MONGO_URI", "")
	cfg := Default()
	cfg.Solver.Timeout = pipeline.Duration(2 * time.Minute)
	var buf bytes.Buffer
	if err := Write(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `timeout = "2m0s"`) {
		t.Errorf("encoded config:\n%s", buf.String())
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Solver.Timeout != cfg.Solver.Timeout || got.Cache.Backend != cfg.Cache.Backend {
		t.Errorf("round trip: %+v", got)
	}
}
