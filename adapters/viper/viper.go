package viper

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Viper struct holds the configuration for the Viper client
type Viper struct {
	v            *viper.Viper
	configName   string
	configType   string
	configPath   string // the base folder; the environment folder is appended
	environment  string
	allowMissing bool
}

// Option configures a Viper.
type Option func(*Viper)

// WithEnvironment overrides the environment folder.
func WithEnvironment(env string) Option {
	return func(v *Viper) {
		if env != "" {
			v.environment = env
		}
	}
}

// WithAllowMissingFile lets InitialiseViper succeed on defaults and env alone.
func WithAllowMissingFile() Option {
	return func(v *Viper) {
		v.allowMissing = true
	}
}

// NewViper creates the viper configuration for <configPath>/<env>/<configName>.<configType>.
func NewViper(configName, configType, configPath string, opts ...Option) *Viper {
	cfg := &Viper{
		v:           viper.New(),
		configName:  configName,
		configType:  configType,
		configPath:  strings.TrimSuffix(configPath, "/"),
		environment: helpers.GetEnvironment(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if helpers.IsEmpty(cfg.environment) {
		cfg.environment = constant.DefaultEnvironment
	}
	return cfg
}

// Environment returns the environment whose folder is read.
func (v *Viper) Environment() string {
	return v.environment
}

// SetDefaults registers a default for every key. Keys without a default are
// invisible to env overrides during Unmarshal.
func (v *Viper) SetDefaults(defaults map[string]any) {
	for key, value := range defaults {
		v.v.SetDefault(key, value)
	}
}

// Set overrides a single key, e.g. from a command line flag.
func (v *Viper) Set(key string, value any) {
	v.v.Set(key, value)
}

// InitialiseViper initialises the viper client
func (v *Viper) InitialiseViper() error {
	v.v.SetEnvPrefix(constant.EnvPrefix)
	v.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.v.AutomaticEnv()
	v.v.Set(constant.Environment, v.environment)

	if v.configPath == "" {
		return nil
	}

	v.v.SetConfigName(v.configName)
	v.v.SetConfigType(v.configType)
	v.v.AddConfigPath(filepath.Join(v.configPath, v.environment))

	if err := v.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if v.allowMissing && errors.As(err, &notFound) {
			helpers.Println(zapcore.WarnLevel, "no configuration file found, using defaults")
			return nil
		}
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	return nil
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (v *Viper) ConfigFileUsed() string {
	return v.v.ConfigFileUsed()
}

// GetString returns the value of key as a string.
func (v *Viper) GetString(key string) string {
	return v.v.GetString(key)
}

// UnmarshalConfig unmarshals the entire configuration into target, decoding
// durations, comma separated slices and text unmarshalers.
//
// Example:
//
//	type AppConfig struct {
//	    Workers struct {
//	        Default int `mapstructure:"default"`
//	    } `mapstructure:"workers"`
//	    Cache struct {
//	        TTL time.Duration `mapstructure:"ttl"`
//	    } `mapstructure:"cache"`
//	}
func UnmarshalConfig[T any](v *Viper, target *T) error {
	if target == nil {
		return fmt.Errorf("target struct cannot be nil")
	}

	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.v.Unmarshal(target, hooks); err != nil {
		return fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return nil
}
