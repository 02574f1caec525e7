package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`      // "redis" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"` // Database file used when driver is sqlite
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
	RowsKey          string `mapstructure:"rows_key"` // List holding one JSON row per submission
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

type CollectorConfig struct {
	EtcPrefix           string   `mapstructure:"etc_prefix"`            // Prefix of the synthesized tag for free-text "other" answers
	OtherTag            string   `mapstructure:"other_tag"`             // Checkbox value of the "other" option
	BridgeParentOrigins []string `mapstructure:"bridge_parent_origins"` // Pages allowed to drive the bridge; empty accepts any
}

type SurveyConfig struct {
	PublicURL    string `mapstructure:"public_url"`    // Address of the survey page, encoded by /qr
	MaxSituation int    `mapstructure:"max_situation"` // Cap on stress_situation selections
}

type TransportConfig struct {
	URL            string   `mapstructure:"url"`             // Collector endpoint the nested context is opened at
	AppendURL      string   `mapstructure:"append_url"`      // Where the bridge forwards records (defaults to the exec endpoint)
	StatsURL       string   `mapstructure:"stats_url"`       // Endpoint answering ?action=getStats
	Strategy       string   `mapstructure:"strategy"`        // "handshake" or "form"
	TimeoutSeconds int      `mapstructure:"timeout_seconds"` // Bound on one submission
	TrustedOrigins []string `mapstructure:"trusted_origins"` // Allow-list for inbound messages
	TargetOrigin   string   `mapstructure:"target_origin"`   // Target origin used when posting the record
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Collector CollectorConfig `mapstructure:"collector"`
	Survey    SurveyConfig    `mapstructure:"survey"`
	Transport TransportConfig `mapstructure:"transport"`
	Log       LogConfig       `mapstructure:"log"`
}

func LoadConfig() (Config, error) {
	var config Config

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Enable environment variable overrides (SURVEY_REDIS_ADDRESS, ...)
	v.SetEnvPrefix("SURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
		log.Println("No config file found, using defaults and environment")
	}

	if err := v.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

// Defaults returns the configuration used when neither a file nor the
// environment set anything.
func Defaults() Config {
	var config Config
	v := viper.New()
	setDefaults(v)
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Invalid configuration defaults: %v", err)
	}
	return config
}

func setDefaults(v *viper.Viper) {
	// WebServer defaults
	v.SetDefault("webserver.port", "8080")
	v.SetDefault("webserver.ip", "127.0.0.1")
	v.SetDefault("webserver.scheme", "http")
	v.SetDefault("webserver.base_url", "")
	v.SetDefault("webserver.read_timeout", 15)
	v.SetDefault("webserver.write_timeout", 15)
	v.SetDefault("webserver.shutdown_timeout", 30)

	// Storage defaults
	v.SetDefault("storage.driver", "redis")
	v.SetDefault("storage.sqlite_path", "survey.db")

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.operation_timeout", 5)
	v.SetDefault("redis.rows_key", "survey:rows")

	// Cache defaults (per-IP limiters)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size_mb", 16)
	v.SetDefault("cache.ttl_seconds", 7200) // 2 hours
	v.SetDefault("cache.counter_size", 100000)

	// RateLimit defaults
	v.SetDefault("ratelimit.requests_per_second", 10.0)
	v.SetDefault("ratelimit.burst", 20)

	// Collector defaults
	v.SetDefault("collector.etc_prefix", "✏️ 기타: ")
	v.SetDefault("collector.other_tag", "기타")
	v.SetDefault("collector.bridge_parent_origins", []string{})

	// Survey defaults
	v.SetDefault("survey.public_url", "")
	v.SetDefault("survey.max_situation", 2)

	// Transport defaults
	v.SetDefault("transport.url", "http://127.0.0.1:8080/bridge")
	v.SetDefault("transport.append_url", "http://127.0.0.1:8080/exec")
	v.SetDefault("transport.stats_url", "http://127.0.0.1:8080/exec")
	v.SetDefault("transport.strategy", "handshake")
	v.SetDefault("transport.timeout_seconds", 10)
	v.SetDefault("transport.trusted_origins", []string{})
	v.SetDefault("transport.target_origin", "*")

	// Log defaults
	v.SetDefault("log.level", "info")
}
