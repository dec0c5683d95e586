package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/lending-service/pkg/kafka"
	"github.com/Astemirdum/lending-service/pkg/logger"
	"github.com/Astemirdum/lending-service/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// development-only fallback, never used when APP_ENV is anything else
	defaultJWTSecret = "your-secret-key"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LENDING_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LENDING_HTTP_PORT" default:"5000"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration
}

type Auth struct {
	Secret   string        `envconfig:"JWT_SECRET"`
	TokenTTL time.Duration `envconfig:"JWT_TTL" default:"720h"`
}

type Config struct {
	Env      string       `envconfig:"APP_ENV"`
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Kafka    kafka.Config `yaml:"kafka"`
	Auth     Auth         `yaml:"auth"`
	Log      logger.Log   `yaml:"log"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// resolveSecret applies the development fallback for JWT_SECRET.
func (c *Config) resolveSecret() error {
	if c.Auth.Secret != "" {
		return nil
	}
	if !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	c.Auth.Secret = defaultJWTSecret
	return nil
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Env == "" {
			config.Env = EnvProduction
		}
		if err := config.resolveSecret(); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
