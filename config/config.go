package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	ListSourceStatic = "static"
	ListSourceRemote = "remote"
)

type UsersList struct {
	WhitelistMode bool
	List          []string
}

type Config struct {
	BotToken   string
	ChannelIds []string
	Prefix     string
	AllowBots  bool

	Endpoint       string
	BasicAuth      string
	RequestTimeout time.Duration

	// InputTimeout is in milliseconds.
	InputTimeout  uint
	PromptRetries uint

	VaeListSource string
	VaeList       []string

	LoraFolderPath     string
	LoraExtensions     []string
	DefaultWeight      float64
	MaxItemsPerMessage int

	MetricsHttpBind    string
	MetricsCorsOrigins []string
	LogLevel           string
	LogJSON            bool

	DenyChanging []string
	UsersList    UsersList
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Prefix", "sd!")
	v.SetDefault("ChannelIds", []string{})
	v.SetDefault("AllowBots", false)

	v.SetDefault("Endpoint", "http://127.0.0.1:7860")
	v.SetDefault("BasicAuth", "")
	v.SetDefault("RequestTimeout", "1m")

	v.SetDefault("InputTimeout", 10000)
	v.SetDefault("PromptRetries", 0)

	v.SetDefault("VaeListSource", ListSourceStatic)
	v.SetDefault("VaeList", []string{"Automatic", "None"})

	v.SetDefault("LoraFolderPath", "")
	v.SetDefault("LoraExtensions", []string{".safetensors", ".pt", ".ckpt"})
	v.SetDefault("DefaultWeight", 1.0)
	v.SetDefault("MaxItemsPerMessage", 20)

	v.SetDefault("MetricsHttpBind", "")
	v.SetDefault("MetricsCorsOrigins", []string{})
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogJSON", false)

	v.SetDefault("DenyChanging", []string{})
	v.SetDefault("UsersList.WhitelistMode", false)
	v.SetDefault("UsersList.List", []string{})
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: Endpoint must not be empty", ErrInvalidConfig)
	}
	if c.DefaultWeight < 0 || c.DefaultWeight > 2 {
		return fmt.Errorf("%w: DefaultWeight %v out of range 0-2", ErrInvalidConfig, c.DefaultWeight)
	}
	if c.MaxItemsPerMessage < 1 || c.MaxItemsPerMessage > 50 {
		return fmt.Errorf("%w: MaxItemsPerMessage %d out of range 1-50", ErrInvalidConfig, c.MaxItemsPerMessage)
	}
	if c.InputTimeout == 0 {
		return fmt.Errorf("%w: InputTimeout must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.VaeListSource) {
	case ListSourceStatic, ListSourceRemote:
	default:
		return fmt.Errorf("%w: unknown VaeListSource %q", ErrInvalidConfig, c.VaeListSource)
	}
	return nil
}

func (c Config) PromptTimeout() time.Duration {
	return time.Duration(c.InputTimeout) * time.Millisecond
}

func (c Config) RemoteVaeList() bool {
	return strings.EqualFold(c.VaeListSource, ListSourceRemote)
}

// CanChange reports whether the named property is absent from DenyChanging.
func (c Config) CanChange(s string) bool {
	for _, v := range c.DenyChanging {
		if strings.EqualFold(strings.ReplaceAll(v, "_", ""), s) {
			return false
		}
	}

	return true
}

// Store holds the live config and swaps it on file changes.
type Store struct {
	mutex  sync.RWMutex
	config Config
	viper  *viper.Viper
}

// Load reads config from path, or from ./config.{json,yaml,toml} when path is empty.
// A missing default file is not an error; defaults and SDLIST_* env vars apply.
func Load(path string) (*Store, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetEnvPrefix("SDLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to open config file: %w", err)
		}
	} else if err := v.WriteConfig(); err != nil {
		return nil, fmt.Errorf("unable to write to config file: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &Store{config: cfg, viper: v}, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Get returns a copy of the current config.
func (s *Store) Get() Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.config
}

func (s *Store) set(cfg Config) {
	s.mutex.Lock()
	s.config = cfg
	s.mutex.Unlock()
}

// File returns the config file in use, or "" when running on defaults.
func (s *Store) File() string {
	if f := s.viper.ConfigFileUsed(); f != "" {
		return filepath.Clean(f)
	}
	return ""
}

// Reload re-reads the config file. An invalid file leaves the current config in place.
func (s *Store) Reload() error {
	if err := s.viper.ReadInConfig(); err != nil {
		return err
	}
	cfg, err := decode(s.viper)
	if err != nil {
		return err
	}
	s.set(cfg)
	return nil
}

// Watch hot-reloads the config file on change.
func (s *Store) Watch(logger zerolog.Logger) {
	if s.File() == "" {
		return
	}

	s.viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(s.viper)
		if err != nil {
			logger.Warn().Err(err).Str("file", e.Name).Msg("ignoring config change")
			return
		}
		s.set(cfg)
		logger.Info().Str("file", e.Name).Msg("successfully updated config")
	})
	s.viper.WatchConfig()
}
