package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr    = ":3000"
	defaultVideoDir      = "./uploads/videos"
	defaultImageDir      = "./uploads/images"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultSweepTTL      = 24 * time.Hour
	defaultSweepInterval = 30 * time.Minute
)

type Config struct {
	ListenAddr    string        `yaml:"listen_addr" json:"listen_addr"`
	VideoDir      string        `yaml:"video_dir" json:"video_dir"`
	ImageDir      string        `yaml:"image_dir" json:"image_dir"`
	PublicBaseURL string        `yaml:"public_base_url" json:"public_base_url"`
	LogLevel      string        `yaml:"log_level" json:"log_level"`
	LogFormat     string        `yaml:"log_format" json:"log_format"`
	SweepTTL      time.Duration `yaml:"sweep_ttl" json:"sweep_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" json:"sweep_interval"`
}

// Default возвращает конфигурацию, совпадающую с поведением сервиса без конфига.
func Default() *Config {
	return &Config{
		ListenAddr:    defaultListenAddr,
		VideoDir:      defaultVideoDir,
		ImageDir:      defaultImageDir,
		LogLevel:      defaultLogLevel,
		LogFormat:     defaultLogFormat,
		SweepTTL:      defaultSweepTTL,
		SweepInterval: defaultSweepInterval,
	}
}

// Load читает .env (если есть), YAML-конфигурацию (если есть), применяет
// ENV-переопределения и проверяет итоговую структуру.
func Load() (*Config, error) {
	// .env нужен только для локальной разработки, уже выставленные переменные не перетираются.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	c := Default()

	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("VIDEO_DIR"); v != "" {
		c.VideoDir = v
	}
	if v := os.Getenv("IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}

	var err error
	if c.SweepTTL, err = envDuration("SWEEP_TTL", c.SweepTTL); err != nil {
		return err
	}
	if c.SweepInterval, err = envDuration("SWEEP_INTERVAL", c.SweepInterval); err != nil {
		return err
	}

	return nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen_addr is empty")
	}
	if strings.TrimSpace(c.VideoDir) == "" || strings.TrimSpace(c.ImageDir) == "" {
		return errors.New("video_dir and image_dir must be set")
	}
	if filepath.Clean(c.VideoDir) == filepath.Clean(c.ImageDir) {
		return errors.New("video_dir and image_dir must differ")
	}
	if c.SweepInterval > 0 && c.SweepTTL <= 0 {
		return errors.New("sweep_ttl must be positive when sweeper is enabled")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// Level переводит log_level в slog.Level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return lvl, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return d, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
