package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by magicer.
const EnvPrefix = "MAGICER_"

// unsetDefaultTag names a struct tag no field carries, so a parse with it applies only the
// variables that are actually set.
const unsetDefaultTag = "magicerNoDefault"

var defaultEnvLoaded sync.Once

// Option adjusts how environment variables are read.
type Option func(*env.Options)

// WithPrefix sets the variable name prefix.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment reads variables from m instead of the process environment.
func WithEnvironment(m map[string]string) Option {
	return func(o *env.Options) { o.Environment = m }
}

func envOptions(opts []Option) env.Options {
	o := env.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load populates v from its envDefault tags and the environment. The default .env file in the
// working directory, if any, is loaded into the process environment on first use.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	err := config.Load(&cfg, config.WithPrefix("MAGICER_"))
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	if err := env.ParseWithOptions(v, envOptions(opts)); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadFile populates v with precedence defaults < YAML file < environment. An empty path is the
// same as Load. Unknown keys in the file are an error.
func LoadFile[T any](path string, v *T, opts ...Option) error {
	if err := Load(v, opts...); err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadingFile, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrReadingFile, path, err)
	}

	o := envOptions(opts)
	o.DefaultValueTagName = unsetDefaultTag
	if err := env.ParseWithOptions(v, o); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadEnv loads the given .env files into the process environment. Earlier files win.
// With no arguments it loads .env from the working directory.
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
