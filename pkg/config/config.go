package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/alantheprice/choices/pkg/settings"
	"github.com/alantheprice/choices/pkg/utils"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ItemValueSeparator string `json:"item_value_separator" yaml:"item_value_separator" validate:"separator"`
	DefaultLocale      string `json:"default_locale" yaml:"default_locale" validate:"bcp47"`
	JsonLogs           bool   `json:"json_logs" yaml:"json_logs"`
	LogFile            string `json:"log_file" yaml:"log_file"`
	Verbose            bool   `json:"verbose" yaml:"verbose"`
	ServerPort         int    `json:"server_port" yaml:"server_port" validate:"min=1,max=65535"`
	MetricsEnabled     bool   `json:"metrics_enabled" yaml:"metrics_enabled"`
	WatchDebounceMs    int    `json:"watch_debounce_ms" yaml:"watch_debounce_ms" validate:"min=0,max=60000"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("separator", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) == 1
	})
	_ = validate.RegisterValidation("bcp47", func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())
		return err == nil
	})
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaultValues()
	return cfg
}

func (cfg *Config) setDefaultValues() {
	if cfg.ItemValueSeparator == "" {
		cfg.ItemValueSeparator = settings.DefaultItemValueSeparator
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = settings.DefaultLocale
	}
	if cfg.LogFile == "" {
		cfg.LogFile = utils.DefaultLogFile
	}
	if cfg.ServerPort == 0 {
		cfg.ServerPort = 8090
	}
	if cfg.WatchDebounceMs == 0 {
		cfg.WatchDebounceMs = 200
	}
}

// Validate checks every field, returning an error wrapping ErrInvalidConfig
// and a utils.StructuredError naming the first bad field.
func (cfg *Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %w", ErrInvalidConfig,
			utils.NewValidationError(fe.Field(), fmt.Sprintf("failed %q check with value %v", fe.Tag(), fe.Value())))
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// Apply pushes the separator and default locale into the process settings.
func (cfg *Config) Apply() error {
	if err := settings.SetItemValueSeparator(cfg.ItemValueSeparator); err != nil {
		return err
	}
	settings.SetDefaultLocale(cfg.DefaultLocale)
	return nil
}

// Load reads a JSON or YAML config file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, utils.NewFileSystemError("read config", path, err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, utils.NewConfigError(path, err)
	}
	cfg.setDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as indented JSON, or YAML for .yaml/.yml paths.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "    ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func getHomeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".choices", "config.json")
}

func getCurrentConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".choices", "config.json")
}

// LoadOrDefault loads ./.choices/config.json, then ~/.choices/config.json,
// falling back to defaults when neither exists.
func LoadOrDefault() (*Config, error) {
	for _, path := range []string{getCurrentConfigPath(), getHomeConfigPath()} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}
