package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
	TransportBoth  = "both"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
	Store     StoreConfig     `yaml:"store"`
	Worker    WorkerConfig    `yaml:"worker"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http", "stdio" или "both"
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type StoreConfig struct {
	SeedSamples bool `yaml:"seed_samples"`
}

type WorkerConfig struct {
	OverdueInterval time.Duration `yaml:"overdue_interval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "",
			RateLimitRPM:    100,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Transport: TransportConfig{Mode: TransportHTTP},
		Store:     StoreConfig{SeedSamples: true},
		Worker:    WorkerConfig{OverdueInterval: 5 * time.Minute},
	}
}

// Load читает YAML-файл поверх значений по умолчанию, затем .env и переменные окружения.
// Отсутствующий файл не считается ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("загрузка .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("TASKS_HTTP_HOST"); ok {
		c.Server.Host = v
	}
	if v := os.Getenv("TASKS_HTTP_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("TASKS_TRANSPORT"); v != "" {
		c.Transport.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("TASKS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}

	var err error
	if c.Logging.Development, err = getEnvAsBool("TASKS_LOG_DEV", c.Logging.Development); err != nil {
		return err
	}
	if c.Store.SeedSamples, err = getEnvAsBool("TASKS_SEED_SAMPLES", c.Store.SeedSamples); err != nil {
		return err
	}
	if c.Server.RateLimitRPM, err = getEnvAsInt("TASKS_RATE_LIMIT_RPM", c.Server.RateLimitRPM); err != nil {
		return err
	}
	if c.Worker.OverdueInterval, err = getEnvAsDuration("TASKS_OVERDUE_INTERVAL", c.Worker.OverdueInterval); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio, TransportBoth:
	default:
		return fmt.Errorf("неизвестный транспорт %q: ожидается http, stdio или both", c.Transport.Mode)
	}
	if c.Worker.OverdueInterval <= 0 {
		return fmt.Errorf("worker.overdue_interval должен быть положительным, получено %s", c.Worker.OverdueInterval)
	}
	if c.HTTPEnabled() && c.Server.Port == "" {
		return errors.New("server.port не задан")
	}
	return nil
}

func (c *Config) HTTPEnabled() bool {
	return c.Transport.Mode == TransportHTTP || c.Transport.Mode == TransportBoth
}

func (c *Config) StdioEnabled() bool {
	return c.Transport.Mode == TransportStdio || c.Transport.Mode == TransportBoth
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
