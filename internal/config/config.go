package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends understood by the server.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	S3       S3Config       `mapstructure:"s3"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Mode     string `mapstructure:"mode"` // "production" for JSON output
	Level    string `mapstructure:"level"`
	HashSalt string `mapstructure:"hash_salt"`
}

// SessionConfig controls the anonymous session tokens.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	// IdleTimeout drops a session's in-memory state after this long
	// without requests. Stored records are kept.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects where pain records live. Keys are
// "<prefix><session>-data". An empty encryption key stores values as
// plain JSON.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	Prefix        string `mapstructure:"prefix"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.hash_salt", "")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.expiration", "720h")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.prefix", "painrelief-")
	v.SetDefault("storage.encryption_key", "")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "painrelief")
	v.SetDefault("database.collection", "kv")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "painrelief")
	v.SetDefault("s3.use_ssl", true)
}

// LoadConfig reads config.yaml from path, then lets environment variables
// override it (server.address -> SERVER_ADDRESS). A missing file is fine.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	return cfg, cfg.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("%w: session.secret must be set", ErrInvalidConfig)
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("%w: session.expiration must be positive", ErrInvalidConfig)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("%w: session.idle_timeout must be positive", ErrInvalidConfig)
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendMongo, BackendRedis, BackendS3:
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.Backend == BackendS3 && c.S3.BucketName == "" {
		return fmt.Errorf("%w: s3.bucket_name must be set", ErrInvalidConfig)
	}
	return nil
}
