package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Vector VectorConfig `mapstructure:"vector"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	LogLevel        string        `mapstructure:"logLevel"`
}

type LLMConfig struct {
	Embedder  ProviderConfig `mapstructure:"embedder"`
	Generator ProviderConfig `mapstructure:"generator"`
}

type ProviderConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
}

type VectorConfig struct {
	Provider   string `mapstructure:"provider"`
	URL        string `mapstructure:"url"`
	URLEnv     string `mapstructure:"url_env"`
	APIKeyEnv  string `mapstructure:"api_key_env"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
	Dim        int    `mapstructure:"dim"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("db.dsn", "host=localhost port=5432 user=postgres password=password dbname=fashionpod sslmode=disable")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetime", time.Hour)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("llm.embedder.provider", "openai")
	v.SetDefault("llm.embedder.model", "text-embedding-3-small")
	v.SetDefault("llm.embedder.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.generator.provider", "anthropic")
	v.SetDefault("llm.generator.model", "claude-3-sonnet-20240229")
	v.SetDefault("llm.generator.api_key_env", "ANTHROPIC_API_KEY")

	v.SetDefault("vector.provider", "qdrant")
	v.SetDefault("vector.url_env", "QDRANT_URL")
	v.SetDefault("vector.api_key_env", "QDRANT_API_KEY")
	v.SetDefault("vector.collection", "products")
	v.SetDefault("vector.dim", 1536)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "development")
}

// LoadConfig loads configuration from config.yaml, a .env file and environment variables.
// The config file is optional; defaults cover local development.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.fashionpod/")
	v.AddConfigPath("/etc/fashionpod/")

	// FASHIONPOD_LLM_EMBEDDER_PROVIDER overrides llm.embedder.provider
	v.SetEnvPrefix("FASHIONPOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
