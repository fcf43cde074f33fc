// Package config loads great-appender's settings from command-line flags and
// the environment.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vnykmshr/great-appender/pkg/common/validation"
)

// EnvPrefix prefixes every environment variable the tool reads,
// e.g. GREAT_APPENDER_PER_WRITE.
const EnvPrefix = "GREAT_APPENDER"

const module = "config"

// Keys shared by flags, viper and the environment.
const (
	KeyFile        = "file"
	KeyMessage     = "message"
	KeyPerWrite    = "per_write"
	KeyVerbose     = "verbose"
	KeyVersion     = "version"
	KeyMetricsAddr = "metrics_addr"
)

// Defaults
const (
	DefaultMessage  = "message"
	DefaultPerWrite = 1024
)

// Config is the validated runtime configuration.
type Config struct {
	File        string // destination, opened append+create
	Message     string // text repeated on every line
	PerWrite    int    // minimum bytes issued per write
	Verbose     bool   // rewrite the status line after every sample
	ShowVersion bool
	MetricsAddr string // listen address for /metrics; environment only
}

// NewFlagSet returns the command-line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP(KeyFile, "f", "", "file to append message to (required)")
	fs.StringP(KeyMessage, "m", DefaultMessage, "message to append")
	// per_write is parsed as a string so a non-numeric value is reported as
	// a validation error rather than a flag syntax error.
	fs.StringP(KeyPerWrite, "p", fmt.Sprint(DefaultPerWrite), "minimum bytes per write")
	fs.BoolP(KeyVerbose, "v", false, "print throughput continuously")
	fs.Bool(KeyVersion, false, "print version information and quit")

	return fs
}

// Load parses args (without the program name) and the environment and
// validates the result. Flag values win over environment values.
func Load(name string, args []string, usage io.Writer) (Config, error) {
	fs := NewFlagSet(name)
	if usage != nil {
		fs.SetOutput(usage)
	} else {
		fs.SetOutput(io.Discard)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	v.SetDefault(KeyMetricsAddr, "")

	cfg := Config{
		File:        v.GetString(KeyFile),
		Message:     v.GetString(KeyMessage),
		Verbose:     v.GetBool(KeyVerbose),
		ShowVersion: v.GetBool(KeyVersion),
		MetricsAddr: v.GetString(KeyMetricsAddr),
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if err := validation.ValidateNotEmpty(module, KeyFile, cfg.File); err != nil {
		return Config{}, err
	}

	perWrite, err := validation.ParseNonNegativeInt(module, KeyPerWrite, v.GetString(KeyPerWrite))
	if err != nil {
		return Config{}, err
	}
	cfg.PerWrite = perWrite

	return cfg, nil
}
