package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process-level configuration: infrastructure endpoints,
// credentials, and tuning knobs. The operational automation settings
// (batch size, daily target, toggles) live in the database and are
// resolved per invocation by the settings resolver.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Generation GenerationConfig `mapstructure:"generation"`
	Images     ImagesConfig     `mapstructure:"images"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"` // public URL prefix (CDN or R2.dev)
}

// GenerationConfig configures the text-generation endpoint
// (OpenAI-compatible chat completions).
type GenerationConfig struct {
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImagesConfig configures the image-generation endpoint. Enabled=false
// skips the AI attempt entirely and goes straight to the fallback chain.
type ImagesConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Size    string        `mapstructure:"size"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PipelineConfig struct {
	MaxPerRun         int           `mapstructure:"max_per_run"`
	ItemDelay         time.Duration `mapstructure:"item_delay"`
	RecentTitlesLimit int           `mapstructure:"recent_titles_limit"`
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads configuration from the given YAML file (or ./configs,
// current directory) with environment variable overrides.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/ecopress.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "ecopress-media")
	v.SetDefault("generation.model", "gpt-4o-mini")
	v.SetDefault("generation.base_url", "https://api.openai.com/v1")
	v.SetDefault("generation.timeout", 120*time.Second)
	v.SetDefault("images.enabled", true)
	v.SetDefault("images.model", "dall-e-3")
	v.SetDefault("images.base_url", "https://api.openai.com/v1")
	v.SetDefault("images.size", "1792x1024")
	v.SetDefault("images.timeout", 120*time.Second)
	v.SetDefault("pipeline.max_per_run", 10)
	v.SetDefault("pipeline.item_delay", 2*time.Second)
	v.SetDefault("pipeline.recent_titles_limit", 10)
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", 8*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("generation.api_key", "OPENAI_API_KEY")
	v.BindEnv("generation.base_url", "OPENAI_BASE_URL")
	v.BindEnv("generation.model", "GENERATION_MODEL")
	v.BindEnv("images.api_key", "OPENAI_API_KEY")
	v.BindEnv("images.base_url", "OPENAI_BASE_URL")
	v.BindEnv("images.model", "IMAGE_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
