package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig selects the credential verification path once at startup.
// When Issuer is set, tokens are verified against the provider's OIDC
// discovery document. Otherwise Secret is used as an HS256 shared key.
// DevVerifier opts into the unsigned local verifier and is refused when
// a real secret is configured (see verifier.NewFromConfig).
type AuthConfig struct {
	Issuer      string
	ClientID    string
	Secret      string
	DevVerifier bool
}

// RateLimitClass is the window/quota pair for one operation class.
type RateLimitClass struct {
	Window time.Duration
	Quota  int
}

// RateLimitConfig is the table of operation classes. New classes are
// additive: add an entry here and reference it from the route wiring.
type RateLimitConfig struct {
	Enabled bool
	Classes map[string]RateLimitClass
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_AUTH_WINDOW_SECONDS", 900)
	viper.SetDefault("RATE_LIMIT_AUTH_QUOTA", 5)
	viper.SetDefault("RATE_LIMIT_API_WINDOW_SECONDS", 60)
	viper.SetDefault("RATE_LIMIT_API_QUOTA", 100)
	viper.SetDefault("RATE_LIMIT_TOKEN_WINDOW_SECONDS", 3600)
	viper.SetDefault("RATE_LIMIT_TOKEN_QUOTA", 30)
	viper.SetDefault("RATE_LIMIT_ROOM_WINDOW_SECONDS", 60)
	viper.SetDefault("RATE_LIMIT_ROOM_QUOTA", 20)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Auth: AuthConfig{
			Issuer:      viper.GetString("AUTH_ISSUER"),
			ClientID:    viper.GetString("AUTH_CLIENT_ID"),
			Secret:      os.Getenv("AUTH_SECRET"),
			DevVerifier: viper.GetBool("AUTH_DEV_VERIFIER"),
		},
		RateLimit: RateLimitConfig{
			Enabled: viper.GetBool("RATE_LIMIT_ENABLED"),
			Classes: map[string]RateLimitClass{
				"auth":  classFromEnv("AUTH"),
				"api":   classFromEnv("API"),
				"token": classFromEnv("TOKEN"),
				"room":  classFromEnv("ROOM"),
			},
		},
	}

	if cfg.Auth.Issuer == "" && cfg.Auth.Secret == "" && !cfg.Auth.DevVerifier {
		return nil, fmt.Errorf("no credential verifier configured: set AUTH_ISSUER, AUTH_SECRET or AUTH_DEV_VERIFIER")
	}

	return cfg, nil
}

func classFromEnv(name string) RateLimitClass {
	return RateLimitClass{
		Window: time.Duration(viper.GetInt("RATE_LIMIT_"+name+"_WINDOW_SECONDS")) * time.Second,
		Quota:  viper.GetInt("RATE_LIMIT_" + name + "_QUOTA"),
	}
}
