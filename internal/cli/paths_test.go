package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/floorpack/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	cfg := config.Default()
	dir, err := fileCacheDir(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}

	cfg.Cache.Dir = "/srv/floorpack-cache"
	if dir, _ := fileCacheDir(&cfg); dir != cfg.Cache.Dir {
		t.Errorf("fileCacheDir() = %q, want the configured %q", dir, cfg.Cache.Dir)
	}
}

func TestConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	c := New(os.Stderr, LogInfo)
	path, err := c.configFile()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, appName, "config.toml"); path != want {
		t.Errorf("configFile() = %q, want %q", path, want)
	}

	c.ConfigPath = "custom.toml"
	if path, _ := c.configFile(); path != "custom.toml" {
		t.Errorf("configFile() = %q, want the --config value", path)
	}
}
