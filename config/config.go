package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Fare     FareConfig     `yaml:"fare"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type FareConfig struct {
	EscalationThreshold int `yaml:"escalation_threshold"`
	MarkupPercent       int `yaml:"markup_percent"`
	CooldownMinutes     int `yaml:"cooldown_minutes"`
	SweepSeconds        int `yaml:"sweep_seconds"`
}

type WalletConfig struct {
	InitialGrant int64 `yaml:"initial_grant"`
}

type CatalogConfig struct {
	SearchCacheTTLSeconds int `yaml:"search_cache_ttl_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Fare.EscalationThreshold == 0 {
		c.Fare.EscalationThreshold = 3
	}
	if c.Fare.MarkupPercent == 0 {
		c.Fare.MarkupPercent = 10
	}
	if c.Fare.CooldownMinutes == 0 {
		c.Fare.CooldownMinutes = 10
	}
	if c.Fare.SweepSeconds == 0 {
		c.Fare.SweepSeconds = 30
	}
	if c.Wallet.InitialGrant == 0 {
		c.Wallet.InitialGrant = 50000
	}
	if c.Catalog.SearchCacheTTLSeconds == 0 {
		c.Catalog.SearchCacheTTLSeconds = 300
	}
}
