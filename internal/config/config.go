package config

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
}

type SessionConfig struct {
	Secret       string `mapstructure:"secret"`
	TTLHours     int    `mapstructure:"ttl_hours"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

type MongoConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// SessionTTL is how long a session and its stored result live.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// MaxUploadBytes caps the multipart request body.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Load reads config.yaml from the working directory when present and
// applies CHATLENS_* environment overrides (CHATLENS_REDIS_ENABLED, ...).
func Load() (Config, error) {
	var config Config

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CHATLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
		log.Debug().Msg("No config file found, using defaults and environment")
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}

func MustLoad() Config {
	config, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 0) // backend calls are not time-boxed by default
	v.SetDefault("server.shutdown_timeout", 30)
	v.SetDefault("server.max_upload_mb", 20)

	v.SetDefault("analyzer.base_url", "http://localhost:5000")
	v.SetDefault("analyzer.timeout_seconds", 0)

	v.SetDefault("session.secret", "change-me")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("session.secure_cookie", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.max_entries", 10000)

	v.SetDefault("mongo.enabled", false)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "chatlens")

	v.SetDefault("ratelimit.requests_per_second", 1.0)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("cors.allowed_origins", "")
}
