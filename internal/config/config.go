// Package config загрузка конфигурации сервиса: TOML-файл с переопределением из окружения
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

// EnvPrefix префикс переменных окружения: BOOKING_DATABASE_HOST и т.д.
const EnvPrefix = "BOOKING"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Booking       BookingConfig       `toml:"booking"`
	Policy        PolicyConfig        `toml:"policy"`
	Periods       []PeriodConfig      `toml:"periods" ignored:"true"`
	Auth          AuthConfig          `toml:"auth"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"` // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	IdempotencyTTL int    `toml:"idempotency_ttl" split_words:"true"` // секунды
}

type NotificationsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Timeout  int    `toml:"timeout"` // секунды
}

type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	AdvanceBookingDays int    `toml:"advance_booking_days" split_words:"true"`
	PendingTTLMinutes  int    `toml:"pending_ttl_minutes" split_words:"true"`
}

type PolicyConfig struct {
	FullRefundHours int `toml:"full_refund_hours" split_words:"true"`
	CreditHours     int `toml:"credit_hours" split_words:"true"`
	CreditTTLDays   int `toml:"credit_ttl_days" split_words:"true"`
}

type PeriodConfig struct {
	Name      string `toml:"name"`
	StartHour int    `toml:"start_hour"`
	EndHour   int    `toml:"end_hour"`
}

type AuthConfig struct {
	OperatorIDs []int64 `toml:"operator_ids" split_words:"true"`
}

// Default значения по умолчанию, файл и окружение их перекрывают
func Default() *Config {
	periods := make([]PeriodConfig, 0, 3)
	for _, p := range domain.DefaultPeriods() {
		periods = append(periods, PeriodConfig{Name: p.Name, StartHour: p.StartHour, EndHour: p.EndHour})
	}

	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "stadium_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "stadium_booking"},
		Redis:   RedisConfig{Addr: "localhost:6379", IdempotencyTTL: 7200},
		Notifications: NotificationsConfig{
			Exchange: "stadium.booking.events",
			Timeout:  5,
		},
		Booking: BookingConfig{
			Timezone:           "UTC",
			AdvanceBookingDays: domain.DefaultAdvanceBookingDays,
			PendingTTLMinutes:  int(domain.DefaultPendingTTL / time.Minute),
		},
		Policy: PolicyConfig{
			FullRefundHours: int(domain.DefaultFullRefundThreshold / time.Hour),
			CreditHours:     int(domain.DefaultCreditThreshold / time.Hour),
			CreditTTLDays:   int(domain.DefaultCreditTTL / (24 * time.Hour)),
		},
		Periods: periods,
	}
}

// Load читает конфигурацию из файла и переменных окружения BOOKING_*
// Отсутствующий файл не ошибка: остаются значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.AdvanceBookingDays < 0 || c.Booking.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: booking.advance_booking_days must be in 0..%d", ErrInvalidConfig, domain.MaxAdvanceBookingDays)
	}
	if c.Booking.PendingTTLMinutes < 0 {
		return fmt.Errorf("%w: booking.pending_ttl_minutes must not be negative", ErrInvalidConfig)
	}
	if err := c.CancellationPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: policy: %w", ErrInvalidConfig, err)
	}
	if _, err := c.PeriodSet(); err != nil {
		return fmt.Errorf("%w: periods: %w", ErrInvalidConfig, err)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Notifications.Enabled && c.Notifications.URL == "" {
		return fmt.Errorf("%w: notifications.url is required when notifications are enabled", ErrInvalidConfig)
	}
	return nil
}

// BookingRules правила допуска бронирований
func (c *Config) BookingRules() (domain.BookingRules, error) {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return domain.BookingRules{}, fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	return domain.BookingRules{
		Location:           loc,
		AdvanceBookingDays: c.Booking.AdvanceBookingDays,
		PendingTTL:         time.Duration(c.Booking.PendingTTLMinutes) * time.Minute,
	}, nil
}

// CancellationPolicy пороги политики отмены
func (c *Config) CancellationPolicy() domain.CancellationPolicy {
	return domain.CancellationPolicy{
		FullRefundThreshold: time.Duration(c.Policy.FullRefundHours) * time.Hour,
		CreditThreshold:     time.Duration(c.Policy.CreditHours) * time.Hour,
		CreditTTL:           time.Duration(c.Policy.CreditTTLDays) * 24 * time.Hour,
	}
}

// PeriodSet именованные периоды дня
func (c *Config) PeriodSet() (domain.PeriodSet, error) {
	periods := make([]domain.Period, 0, len(c.Periods))
	for _, p := range c.Periods {
		periods = append(periods, domain.Period{Name: p.Name, StartHour: p.StartHour, EndHour: p.EndHour})
	}
	return domain.NewPeriodSet(periods)
}

// Operators операторы стадиона
func (c *Config) Operators() domain.OperatorSet {
	return domain.NewOperatorSet(c.Auth.OperatorIDs)
}
