package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/remoteprov/rkp-go/pkg/cert"
	"github.com/remoteprov/rkp-go/pkg/config"
	"github.com/remoteprov/rkp-go/pkg/log"
)

// Env bundles the configuration and loggers the provisioning commands share.
type Env struct {
	Config *config.Config
	Slog   *slog.Logger
	Events log.Logger

	file *log.FileLogger
}

// NewEnv loads configPath (defaults when empty) and sets up logging to
// stderr plus the event log file if one is configured.
func NewEnv(configPath string, stderr io.Writer) (*Env, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	env := &Env{
		Config: cfg,
		Slog:   slog.New(cfg.NewSlogHandler(stderr)),
	}

	loggers := []log.Logger{log.NewSlogAdapter(env.Slog)}
	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		env.file = fl
		loggers = append(loggers, fl)
	}
	env.Events = log.NewMultiLogger(loggers...)
	return env, nil
}

// Suite returns a certificate suite logging to the environment's loggers.
func (e *Env) Suite() *cert.Suite {
	return cert.NewSuite(cert.SuiteConfig{Logger: e.Events})
}

// Close flushes and closes the event log file, if any.
func (e *Env) Close() error {
	if e.file == nil {
		return nil
	}
	return e.file.Close()
}
