package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/vcard"
)

// isolate runs the test in an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultCharset != "" {
		t.Errorf("DefaultCharset = %q, want empty", cfg.DefaultCharset)
	}
	if cfg.Dialect != vcard.DialectUnknown || cfg.DefaultDialect != vcard.DialectUnknown {
		t.Errorf("dialects = %v/%v, want unknown", cfg.Dialect, cfg.DefaultDialect)
	}
	if cfg.WriteCharset != "UTF-8" {
		t.Errorf("WriteCharset = %q, want UTF-8", cfg.WriteCharset)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want WARN", cfg.LogLevel)
	}
	if len(cfg.ParseOptions()) != 0 {
		t.Errorf("expected no parse options, got %d", len(cfg.ParseOptions()))
	}
	if len(cfg.WriteOptions()) != 1 {
		t.Errorf("expected only the charset write option, got %d", len(cfg.WriteOptions()))
	}
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "vcard.yaml"), `
parse:
  default_charset: Shift_JIS
  default_dialect: "2.1"
  strict: true
  generate_uids: true
write:
  version: "4.0"
  backup_suffix: .bak
log:
  level: debug
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		DefaultCharset: "Shift_JIS",
		DefaultDialect: vcard.V21,
		Strict:         true,
		GenerateUIDs:   true,
		WriteVersion:   vcard.V40,
		WriteCharset:   "UTF-8",
		BackupSuffix:   ".bak",
		LogLevel:       slog.LevelDebug,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if got := len(cfg.ParseOptions()); got != 4 {
		t.Errorf("len(ParseOptions()) = %d, want 4", got)
	}
	if got := len(cfg.WriteOptions()); got != 3 {
		t.Errorf("len(WriteOptions()) = %d, want 3", got)
	}
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("VCARD_PARSE_DIALECT", "3.0")
	t.Setenv("VCARD_WRITE_CHARSET", "ISO-8859-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dialect != vcard.V30 {
		t.Errorf("Dialect = %v, want 3.0", cfg.Dialect)
	}
	if cfg.WriteCharset != "ISO-8859-1" {
		t.Errorf("WriteCharset = %q, want ISO-8859-1", cfg.WriteCharset)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "custom.yaml")
	writeConfig(t, path, "write:\n  charset: Shift_JIS\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WriteCharset != "Shift_JIS" {
		t.Errorf("WriteCharset = %q, want Shift_JIS", cfg.WriteCharset)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"dialect", "VCARD_PARSE_DIALECT", "5.0"},
		{"default dialect", "VCARD_PARSE_DEFAULT_DIALECT", "vcard"},
		{"write version", "VCARD_WRITE_VERSION", "2"},
		{"log level", "VCARD_LOG_LEVEL", "loud"},
		{"empty write charset", "VCARD_WRITE_CHARSET", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)

			if _, err := Load(""); err == nil {
				t.Errorf("Load() with %s=%q: expected error", tt.env, tt.val)
			}
		})
	}
}
