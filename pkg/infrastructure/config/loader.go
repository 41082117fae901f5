package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides. Double underscores separate
// sections: BLENDTRACK_DATABASE__HOST sets database.host.
const EnvPrefix = "BLENDTRACK_"

// Loader assembles a Config from layered sources. Later layers win:
// defaults, then the env file, then the process environment, then overrides.
type Loader struct {
	envFile   string
	overrides map[string]any
	validator *validator.Validate
}

type LoaderOption func(*Loader)

// WithEnvFile loads path with godotenv before reading the environment. A
// missing file is not an error.
func WithEnvFile(path string) LoaderOption {
	return func(l *Loader) { l.envFile = path }
}

// WithOverride sets a dotted key last, as command line flags do
func WithOverride(key string, value any) LoaderOption {
	return func(l *Loader) { l.overrides[key] = value }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		overrides: make(map[string]any),
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is shorthand for NewLoader(opts...).Load()
func Load(opts ...LoaderOption) (*Config, error) {
	return NewLoader(opts...).Load()
}

func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", l.envFile, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, value := range l.overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := l.validator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// transformEnvKey maps BLENDTRACK_SERVER__READ_TIMEOUT to server.read_timeout
func transformEnvKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", "."), value
}
