package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the biosearch service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Cache     CacheConfig     `mapstructure:"cache"`
	AI        AIConfig        `mapstructure:"ai"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ProvidersConfig groups every upstream data provider
type ProvidersConfig struct {
	Mindex      MindexConfig       `mapstructure:"mindex"`
	INaturalist INaturalistConfig  `mapstructure:"inaturalist"`
	PubChem     PubChemConfig      `mapstructure:"pubchem"`
	Entrez      EntrezConfig       `mapstructure:"entrez"`
	Crossref    BibliographyConfig `mapstructure:"crossref"`
	OpenAlex    BibliographyConfig `mapstructure:"openalex"`
}

// MindexConfig contains settings for the primary curated biology database
type MindexConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// INaturalistConfig contains citizen-science observation service settings
type INaturalistConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PubChemConfig contains chemical-structure lookup settings
type PubChemConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EntrezConfig contains nucleotide sequence archive settings.
// The archive rate-limits aggressively, so the two-step search keeps an
// explicit delay between the id lookup and the summary call.
type EntrezConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CallDelay time.Duration `mapstructure:"call_delay"`
}

// BibliographyConfig is shared by the scholarly-metadata providers
type BibliographyConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	MailTo  string        `mapstructure:"mailto"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects and sizes the response cache
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"` // inmemory | redis
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	Redis      RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("cache.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("cache.redis.port required")
	}
	return nil
}

// AIConfig contains the language-model collaborator settings
type AIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// IngestConfig contains settings for the background ingestion notifier
type IngestConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	QueueSize int           `mapstructure:"queue_size"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file, with BIOSEARCH_* env overrides
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("providers.mindex.base_url", "http://mindex:8000")
	viper.SetDefault("providers.mindex.timeout", 10*time.Second)
	viper.SetDefault("providers.inaturalist.base_url", "https://api.inaturalist.org/v1")
	viper.SetDefault("providers.inaturalist.timeout", 4*time.Second)
	viper.SetDefault("providers.pubchem.base_url", "https://pubchem.ncbi.nlm.nih.gov/rest/pug")
	viper.SetDefault("providers.pubchem.timeout", 2500*time.Millisecond)
	viper.SetDefault("providers.entrez.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	viper.SetDefault("providers.entrez.timeout", 8*time.Second)
	viper.SetDefault("providers.entrez.call_delay", 350*time.Millisecond)
	viper.SetDefault("providers.crossref.base_url", "https://api.crossref.org")
	viper.SetDefault("providers.crossref.timeout", 5*time.Second)
	viper.SetDefault("providers.openalex.base_url", "https://api.openalex.org")
	viper.SetDefault("providers.openalex.timeout", 5*time.Second)
	viper.SetDefault("cache.backend", "inmemory")
	viper.SetDefault("cache.ttl", 60*time.Second)
	viper.SetDefault("cache.max_entries", 256)
	viper.SetDefault("ai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.temperature", 0.2)
	viper.SetDefault("ai.max_tokens", 600)
	viper.SetDefault("ai.timeout", 12*time.Second)
	viper.SetDefault("ingest.timeout", 5*time.Second)
	viper.SetDefault("ingest.queue_size", 64)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("BIOSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// config file is optional: every key has a default or an env override
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if config.Cache.Backend == "redis" {
		if err := config.Cache.Redis.Validate(); err != nil {
			panic(err)
		}
	}
	return &config
}
