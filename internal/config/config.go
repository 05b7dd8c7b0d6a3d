package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DefaultRedisAddr is probed at startup when no explicit Redis address is
// configured, before falling back to in-memory session storage.
const DefaultRedisAddr = "localhost:6379"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Index     IndexConfig     `mapstructure:"index"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir       string        `mapstructure:"static_dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	// MaxMessages bounds the sliding context window per session
	MaxMessages int `mapstructure:"max_messages"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// Workers bounds concurrent generation calls
	Workers int `mapstructure:"workers"`
	// SystemInstruction overrides the default assistant persona
	SystemInstruction string `mapstructure:"system_instruction"`
}

type EmbeddingConfig struct {
	OllamaHost string `mapstructure:"ollama_host"`
	Model      string `mapstructure:"model"`
}

type IndexConfig struct {
	// Path is the directory holding the persisted vector index
	Path string `mapstructure:"path"`
	// DocsDir holds the reference texts picked up by ingestion
	DocsDir string `mapstructure:"docs_dir"`
	// DefaultK is the number of chunks retrieved when the caller gives none
	DefaultK int `mapstructure:"default_k"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.static_dir", "./static")

	// Redis: addr intentionally has no default. Empty means "probe the
	// default local instance, then fall back to in-memory storage".
	v.SetDefault("redis.db", 0)

	// Session
	v.SetDefault("session.max_messages", 8)

	// Gemini
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.workers", 3)

	// Embedding
	v.SetDefault("embedding.ollama_host", "http://localhost:11434")
	v.SetDefault("embedding.model", "nomic-embed-text")

	// Index
	v.SetDefault("index.path", "data/vector_index")
	v.SetDefault("index.docs_dir", "sample_docs")
	v.SetDefault("index.default_k", 4)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	// Redis
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Gemini
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.model", "GEMINI_MODEL")

	// Embedding
	v.BindEnv("embedding.ollama_host", "OLLAMA_HOST")
	v.BindEnv("embedding.model", "EMBEDDING_MODEL")

	// Index
	v.BindEnv("index.path", "INDEX_PATH")
	v.BindEnv("index.docs_dir", "DOCS_DIR")
}
