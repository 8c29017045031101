// Package config loads settings for the vcard command.
//
// Values come from an optional vcard.yaml file and VCARD_* environment
// variables, with command-line flags applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/simonhull/vcard"
)

const (
	defaultConfigName = "vcard"
	envPrefix         = "VCARD"
)

// Config holds resolved settings.
type Config struct {
	// Parse settings.
	DefaultCharset string
	DefaultDialect vcard.Dialect // DialectUnknown = sniff per file
	Dialect        vcard.Dialect // DialectUnknown = detect per entry
	Strict         bool
	GenerateUIDs   bool

	// Write settings.
	WriteVersion vcard.Dialect // DialectUnknown = keep each entry's dialect
	WriteCharset string
	BackupSuffix string

	LogLevel slog.Level
}

// Load reads configuration.
//
// When path is empty the file is optional and searched for as vcard.yaml
// in the working directory and in the user config directory. An explicit
// path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "vcard"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("parse.default_charset", "")
	v.SetDefault("parse.default_dialect", "")
	v.SetDefault("parse.dialect", "")
	v.SetDefault("parse.strict", false)
	v.SetDefault("parse.generate_uids", false)
	v.SetDefault("write.version", "")
	v.SetDefault("write.charset", "UTF-8")
	v.SetDefault("write.backup_suffix", "")
	v.SetDefault("log.level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DefaultCharset: strings.TrimSpace(v.GetString("parse.default_charset")),
		Strict:         v.GetBool("parse.strict"),
		GenerateUIDs:   v.GetBool("parse.generate_uids"),
		WriteCharset:   strings.TrimSpace(v.GetString("write.charset")),
		BackupSuffix:   v.GetString("write.backup_suffix"),
	}

	var err error
	if cfg.DefaultDialect, err = dialectSetting(v, "parse.default_dialect"); err != nil {
		return Config{}, err
	}
	if cfg.Dialect, err = dialectSetting(v, "parse.dialect"); err != nil {
		return Config{}, err
	}
	if cfg.WriteVersion, err = dialectSetting(v, "write.version"); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("invalid log.level %q", v.GetString("log.level"))
	}
	if cfg.WriteCharset == "" {
		return Config{}, errors.New("write.charset must not be empty")
	}
	return cfg, nil
}

// ParseOptions translates the parse settings into library options.
func (c Config) ParseOptions() []vcard.Option {
	var opts []vcard.Option
	if c.DefaultCharset != "" {
		opts = append(opts, vcard.WithDefaultCharset(c.DefaultCharset))
	}
	if c.DefaultDialect != vcard.DialectUnknown {
		opts = append(opts, vcard.WithDefaultDialect(c.DefaultDialect))
	}
	if c.Dialect != vcard.DialectUnknown {
		opts = append(opts, vcard.WithDialect(c.Dialect))
	}
	if c.Strict {
		opts = append(opts, vcard.WithStrictDecoding())
	}
	if c.GenerateUIDs {
		opts = append(opts, vcard.WithGeneratedUIDs())
	}
	return opts
}

// WriteOptions translates the write settings into library options.
func (c Config) WriteOptions() []vcard.WriteOption {
	opts := []vcard.WriteOption{vcard.WithCharset(c.WriteCharset)}
	if c.WriteVersion != vcard.DialectUnknown {
		opts = append(opts, vcard.WithVersion(c.WriteVersion))
	}
	if c.BackupSuffix != "" {
		opts = append(opts, vcard.WithBackup(c.BackupSuffix))
	}
	return opts
}

func dialectSetting(v *viper.Viper, key string) (vcard.Dialect, error) {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return vcard.DialectUnknown, nil
	}
	d, err := vcard.ParseDialect(s)
	if err != nil {
		return vcard.DialectUnknown, fmt.Errorf("invalid %s %q: want 2.1, 3.0 or 4.0", key, s)
	}
	return d, nil
}
