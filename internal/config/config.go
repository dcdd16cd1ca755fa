// Package config resolves chazz settings from defaults, a config file,
// CHAZZ_* environment variables and command-line flags, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/chazz/pkg/convert"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "chazz.yaml"

// EnvPrefix namespaces environment overrides, e.g. CHAZZ_REDIS_ADDR.
const EnvPrefix = "CHAZZ_"

// Sink backends.
const (
	SinkFile  = "file"
	SinkRedis = "redis"
)

// Config holds every setting a chazz command may need.
type Config struct {
	Input         string `mapstructure:"input" yaml:"input"`
	Key           string `mapstructure:"key" yaml:"key"`
	Output        string `mapstructure:"output" yaml:"output"`
	Workers       int    `mapstructure:"workers" yaml:"workers"`
	Format        string `mapstructure:"format" yaml:"format"`
	Sink          string `mapstructure:"sink" yaml:"sink"`
	SkipUnchanged bool   `mapstructure:"skip_unchanged" yaml:"skip_unchanged"`
	FailOnError   bool   `mapstructure:"fail_on_error" yaml:"fail_on_error"`

	Redis RedisConfig `mapstructure:"redis" yaml:"redis"`
	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`
	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// RedisConfig configures the redis sink.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	Schedule string        `mapstructure:"schedule" yaml:"schedule"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Keys lists every dotted setting name. Env and flag names derive from it.
var Keys = []string{
	"input", "key", "output", "workers", "format", "sink", "skip_unchanged", "fail_on_error",
	"redis.addr", "redis.password", "redis.db", "redis.prefix", "redis.ttl",
	"watch.debounce", "watch.schedule",
	"serve.port", "serve.shutdown_timeout",
	"log.level", "log.format",
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output: "out",
		Format: string(convert.FormatMarkdown),
		Sink:   SinkFile,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "chazz:output:",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Serve: ServeConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// EnvName maps a dotted key to its environment variable.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// FlagName maps a dotted key to its command-line flag.
func FlagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(key)
}

var usage = map[string]string{
	"input":                  "input JSON file or directory",
	"key":                    "document field to transform",
	"output":                 "output directory for the file sink",
	"workers":                "concurrent conversions (0 uses every CPU)",
	"format":                 "output format: markdown or html",
	"sink":                   "output backend: file or redis",
	"skip_unchanged":         "do not rewrite outputs whose content is unchanged",
	"fail_on_error":          "exit with status 1 when any document fails",
	"redis.addr":             "redis server address",
	"redis.password":         "redis password",
	"redis.db":               "redis database number",
	"redis.prefix":           "key prefix for stored outputs",
	"redis.ttl":              "expiry for stored outputs (0 keeps them)",
	"watch.debounce":         "quiet period before re-converting changed documents",
	"watch.schedule":         "cron spec for periodic full conversions",
	"serve.port":             "HTTP port to listen on",
	"serve.shutdown_timeout": "grace period for in-flight requests on shutdown",
	"log.level":              "log level: debug, info, warn or error",
	"log.format":             "log format: text or json",
}

// BindFlags registers one flag per key on fs, defaulting to the built-in value.
// Keys that already have a flag are left alone.
func BindFlags(fs *pflag.FlagSet, keys ...string) {
	def := Default()
	for _, key := range keys {
		name := FlagName(key)
		if fs.Lookup(name) != nil {
			continue
		}
		switch v := def.value(key).(type) {
		case string:
			fs.String(name, v, usage[key])
		case int:
			fs.Int(name, v, usage[key])
		case bool:
			fs.Bool(name, v, usage[key])
		case time.Duration:
			fs.Duration(name, v, usage[key])
		default:
			panic(fmt.Sprintf("config: no flag for key %q", key))
		}
	}
}

func (c *Config) value(key string) any {
	switch key {
	case "input":
		return c.Input
	case "key":
		return c.Key
	case "output":
		return c.Output
	case "workers":
		return c.Workers
	case "format":
		return c.Format
	case "sink":
		return c.Sink
	case "skip_unchanged":
		return c.SkipUnchanged
	case "fail_on_error":
		return c.FailOnError
	case "redis.addr":
		return c.Redis.Addr
	case "redis.password":
		return c.Redis.Password
	case "redis.db":
		return c.Redis.DB
	case "redis.prefix":
		return c.Redis.Prefix
	case "redis.ttl":
		return c.Redis.TTL
	case "watch.debounce":
		return c.Watch.Debounce
	case "watch.schedule":
		return c.Watch.Schedule
	case "serve.port":
		return c.Serve.Port
	case "serve.shutdown_timeout":
		return c.Serve.ShutdownTimeout
	case "log.level":
		return c.Log.Level
	case "log.format":
		return c.Log.Format
	}
	return nil
}

type loadOptions struct {
	lookupEnv func(string) (string, bool)
	flags     *pflag.FlagSet
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithEnv replaces os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) LoadOption {
	return func(o *loadOptions) {
		o.lookupEnv = lookup
	}
}

// WithFlags overlays every flag of fs that the user set explicitly.
func WithFlags(fs *pflag.FlagSet) LoadOption {
	return func(o *loadOptions) {
		o.flags = fs
	}
}

// Load resolves the configuration.
// An empty path falls back to DefaultFile when it exists. An explicit path must exist.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := &loadOptions{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(o)
	}

	overlay, err := readFile(path)
	if err != nil {
		return nil, err
	}

	for _, key := range Keys {
		if v, ok := o.lookupEnv(EnvName(key)); ok {
			setPath(overlay, key, v)
		}
	}

	if o.flags != nil {
		for _, key := range Keys {
			if f := o.flags.Lookup(FlagName(key)); f != nil && f.Changed {
				setPath(overlay, key, f.Value.String())
			}
		}
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(overlay); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	out := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func setPath(m map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := convert.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Sink != SinkFile && c.Sink != SinkRedis {
		errs = append(errs, fmt.Errorf("unknown sink %q (want %s or %s)", c.Sink, SinkFile, SinkRedis))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis ttl must not be negative, got %s", c.Redis.TTL))
	}
	if c.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("watch debounce must be positive, got %s", c.Watch.Debounce))
	}
	if c.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid watch schedule %q: %w", c.Watch.Schedule, err))
		}
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ValidateBatch additionally requires what a conversion run needs.
func (c *Config) ValidateBatch() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Input == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if c.Key == "" {
		errs = append(errs, errors.New("key is required"))
	}
	if c.Sink == SinkFile && c.Output == "" {
		errs = append(errs, errors.New("output directory is required for the file sink"))
	}
	return errors.Join(errs...)
}
