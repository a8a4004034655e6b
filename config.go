package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls logging, meshing and the unsnapped placement defaults.
type Config struct {
	OpsLog              string        `env:"SLOTSNAP_OPS_LOG"               envDefault:"stderr"`
	DiagLog             string        `env:"SLOTSNAP_DIAG_LOG"              envDefault:"off"`
	MeshCells           int           `env:"SLOTSNAP_MESH_CELLS"            envDefault:"64"`
	DefaultRotationStep int           `env:"SLOTSNAP_DEFAULT_ROTATION_STEP" envDefault:"10"`
	EvalTimeout         time.Duration `env:"SLOTSNAP_EVAL_TIMEOUT"          envDefault:"5s"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadConfigFrom reads the given variables instead of the process
// environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MeshCells <= 0 {
		return fmt.Errorf("SLOTSNAP_MESH_CELLS must be positive, got %d", c.MeshCells)
	}
	if c.DefaultRotationStep < 0 || c.DefaultRotationStep > 360 {
		return fmt.Errorf("SLOTSNAP_DEFAULT_ROTATION_STEP outside [0, 360]: %d", c.DefaultRotationStep)
	}
	return nil
}

// openLog resolves a log destination: "stderr", "stdout", "off" (or empty)
// or a file path opened for append. The returned closer is never nil.
func openLog(dest string) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	switch dest {
	case "", "off":
		return nil, nop, nil
	case "stderr":
		return os.Stderr, nop, nil
	case "stdout":
		return os.Stdout, nop, nil
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nop, fmt.Errorf("open log %s: %w", dest, err)
	}
	return f, f.Close, nil
}
