package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/magicer/pkg/httpserver"
)

// Config is the complete runtime configuration of magicer.
type Config struct {
	Server   httpserver.Config `yaml:"server"`
	Limits   LimitsConfig      `yaml:"limits" envPrefix:"LIMIT_"`
	Analysis AnalysisConfig    `yaml:"analysis" envPrefix:"ANALYSIS_"`
	Sandbox  SandboxConfig     `yaml:"sandbox" envPrefix:"SANDBOX_"`
	Auth     AuthConfig        `yaml:"auth" envPrefix:"AUTH_"`
	Log      LogConfig         `yaml:"log" envPrefix:"LOG_"`

	// TrustedProxies lists the CIDRs whose forwarding headers are believed.
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
}

// LimitsConfig bounds what a client may send.
type LimitsConfig struct {
	MaxBodySize     ByteSize `yaml:"max_body_size" env:"MAX_BODY_SIZE" envDefault:"100MiB"`
	MaxFilenameSize int      `yaml:"max_filename_size" env:"MAX_FILENAME_SIZE" envDefault:"310"`
}

// AnalysisConfig controls ingestion, classification and temp file housekeeping.
type AnalysisConfig struct {
	WorkDir         string        `yaml:"work_dir" env:"WORK_DIR" envDefault:"/tmp/magicer"`
	MemoryThreshold ByteSize      `yaml:"memory_threshold" env:"MEMORY_THRESHOLD" envDefault:"10MiB"`
	BufferSize      ByteSize      `yaml:"buffer_size" env:"BUFFER_SIZE" envDefault:"64KiB"`
	MinFreeSpace    ByteSize      `yaml:"min_free_space" env:"MIN_FREE_SPACE" envDefault:"1GiB"`
	MmapFallback    bool          `yaml:"mmap_fallback" env:"MMAP_FALLBACK" envDefault:"true"`
	ClassifyTimeout time.Duration `yaml:"classify_timeout" env:"CLASSIFY_TIMEOUT" envDefault:"30s"`
	IngestTimeout   time.Duration `yaml:"ingest_timeout" env:"INGEST_TIMEOUT" envDefault:"60s"`
	TempMaxAge      time.Duration `yaml:"temp_max_age" env:"TEMP_MAX_AGE" envDefault:"1h"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" envDefault:"10m"`
}

// SandboxConfig locates the directory analyze_path is confined to.
type SandboxConfig struct {
	Root string `yaml:"root" env:"ROOT" envDefault:"/tmp/magicer/files"`
}

// AuthConfig is the single credential pair accepted by the API.
type AuthConfig struct {
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
}

// LogValue keeps the password out of logs.
func (a AuthConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", a.Username),
		slog.String("password", "[redacted]"),
	)
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" envDefault:"info"`
	Format string `yaml:"format" env:"FORMAT" envDefault:"json"`
}

// Read loads the configuration from path (optional) and the MAGICER_ environment, then
// validates it.
func Read(path string, opts ...Option) (Config, error) {
	var cfg Config
	opts = append([]Option{WithPrefix(EnvPrefix)}, opts...)
	if err := LoadFile(path, &cfg, opts...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unusable values and creates the work and sandbox directories when missing.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Auth.Username == "" || c.Auth.Password == "" {
		fail("auth: username and password are required")
	}
	if c.Limits.MaxBodySize == 0 {
		fail("limits.max_body_size must be > 0")
	}
	if c.Limits.MaxFilenameSize <= 0 {
		fail("limits.max_filename_size must be > 0")
	}
	if c.Analysis.MemoryThreshold == 0 {
		fail("analysis.memory_threshold must be > 0")
	}
	if c.Analysis.BufferSize == 0 || c.Analysis.BufferSize > c.Analysis.MemoryThreshold {
		fail("analysis.buffer_size must be > 0 and <= memory_threshold")
	}
	if c.Analysis.ClassifyTimeout <= 0 || c.Analysis.IngestTimeout <= 0 {
		fail("analysis timeouts must be > 0")
	}
	if c.Analysis.TempMaxAge <= 0 || c.Analysis.SweepInterval <= 0 {
		fail("analysis.temp_max_age and sweep_interval must be > 0")
	}
	// The sweeper must never reach a file that a request is still using.
	if busy := c.Analysis.IngestTimeout + c.Analysis.ClassifyTimeout; c.Analysis.TempMaxAge > 0 && c.Analysis.TempMaxAge <= busy {
		fail("analysis.temp_max_age (%s) must exceed ingest_timeout + classify_timeout (%s)", c.Analysis.TempMaxAge, busy)
	}
	if c.Server.Addr == "" {
		fail("server.addr is required")
	}
	if c.Server.MaxHeaderBytes <= 0 {
		fail("server.max_header_bytes must be > 0")
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		fail("log.level: %v", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		fail("log.format must be json or text, got %q", c.Log.Format)
	}

	for name, dir := range map[string]*string{
		"analysis.work_dir": &c.Analysis.WorkDir,
		"sandbox.root":      &c.Sandbox.Root,
	} {
		if *dir == "" {
			fail("%s is required", name)
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			fail("%s: %v", name, err)
			continue
		}
		if err := os.MkdirAll(abs, 0o700); err != nil {
			fail("%s: %v", name, err)
			continue
		}
		*dir = abs
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
