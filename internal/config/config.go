package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DevJWTSecret is the development signing secret. It is refused when ENV=production.
const DevJWTSecret = "dev-secret-change-in-production-dev-secret-change-in-production-"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" validate:"gt=0,lt=65536"`
	Env         string   `mapstructure:"env" validate:"oneof=development test production"`
	BasePath    string   `mapstructure:"base_path" validate:"omitempty,startswith=/"`
	LogLevel    string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string   `mapstructure:"log_format" validate:"oneof=json text"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=mysql postgres sqlite memory"`
	DSN             string        `mapstructure:"dsn" validate:"required_unless=Driver memory"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=64"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	Issuer    string        `mapstructure:"issuer" validate:"required"`
	Audience  string        `mapstructure:"audience" validate:"required"`
}

// envAliases keeps the short variable names working alongside the SECTION_KEY form.
var envAliases = map[string][]string{
	"server.port":           {"SERVER_PORT", "PORT"},
	"server.env":            {"SERVER_ENV", "ENV"},
	"database.driver":       {"DATABASE_DRIVER", "DB_DRIVER"},
	"database.dsn":          {"DATABASE_DSN", "DB_DSN"},
	"database.auto_migrate": {"DATABASE_AUTO_MIGRATE", "DB_AUTO_MIGRATE"},
	"auth.jwt_secret":       {"AUTH_JWT_SECRET", "JWT_SECRET"},
	"auth.token_ttl":        {"AUTH_TOKEN_TTL", "JWT_TTL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.cors_origins", []string{"http://localhost:4200"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "root:password@tcp(127.0.0.1:3306)/solotrip?parseTime=true")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("auth.jwt_secret", DevJWTSecret)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", "solotrip")
	v.SetDefault("auth.audience", "solotrip-api")
}

// Load reads configuration from the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Server.Env == "production" && cfg.Auth.JWTSecret == DevJWTSecret {
		return nil, errors.New("config validation failed: JWT_SECRET must be set in production environment")
	}

	return &cfg, nil
}
