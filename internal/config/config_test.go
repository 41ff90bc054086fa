package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deixis/localeshell/locale"
	"github.com/deixis/localeshell/shell"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `version: 1
locale: italian
timeout: 90s
keys:
  LOCALE_KEY: LANG
max_output: 1024
history: 4
`)

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Path != filepath.Join(dir, FileName) {
		t.Errorf("Path = %q", res.Path)
	}
	cfg := res.Config
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if l, err := cfg.Locale(); err != nil || l != locale.Italian {
		t.Errorf("Locale() = %s, %v, want italian", l, err)
	}
	if cfg.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %s, want 90s", cfg.Timeout())
	}
	if cfg.Keys()[shell.LocaleKey] != "LANG" {
		t.Errorf("Keys() = %v", cfg.Keys())
	}
	if cfg.MaxOutputBytes() != 1024 {
		t.Errorf("MaxOutputBytes() = %d", cfg.MaxOutputBytes())
	}
	if cfg.HistorySize() != 4 {
		t.Errorf("HistorySize() = %d", cfg.HistorySize())
	}
}

func TestLoad_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "version: 2\n")

	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Config.Version != 2 {
		t.Errorf("Version = %d, want 2", res.Config.Version)
	}
}

func TestLoad_NoFile(t *testing.T) {
	res, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := res.Config
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %s, want default", cfg.Timeout())
	}
	if l, _ := cfg.Locale(); l != locale.English {
		t.Errorf("Locale() = %s, want english", l)
	}
	if cfg.Keys()[shell.LocaleKey] != "LC_ALL" {
		t.Errorf("Keys() = %v, want default", cfg.Keys())
	}
	if cfg.MaxOutputBytes() != DefaultMaxOutput || cfg.HistorySize() != DefaultHistorySize {
		t.Error("expected default sizes")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown locale", "locale: klingon\n", locale.ErrUnknown},
		{"bad timeout", "timeout: soon\n", nil},
		{"negative timeout", "timeout: -1s\n", nil},
		{"bad yaml", "locale: [\n", nil},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		writeConfig(t, dir, tt.content)
		_, err := Load(dir)
		if err == nil {
			t.Errorf("%s: Load succeeded, want error", tt.name)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestConfig_Shell(t *testing.T) {
	cfg := &Config{RawLocale: "italian", RawKeys: map[string]string{shell.LocaleKey: "LANG"}}
	s, err := cfg.Shell(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Locale() != locale.Italian {
		t.Errorf("Locale() = %s, want italian", s.Locale())
	}
	name, value := s.LocaleEnv()
	if name != "LANG" || value != "it_IT" {
		t.Errorf("LocaleEnv() = %s=%s, want LANG=it_IT", name, value)
	}
	if got, want := s.Keys(), cfg.Keys(); !maps.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestConfig_Shell_ExtraKeys(t *testing.T) {
	cfg := &Config{RawKeys: map[string]string{"EXTRA": "X"}}
	s, err := cfg.Shell(nil)
	if err != nil {
		t.Fatal(err)
	}
	keys := s.Keys()
	if keys[shell.LocaleKey] != "LC_ALL" || keys["EXTRA"] != "X" {
		t.Errorf("Keys() = %v, want defaults plus EXTRA", keys)
	}
}
