package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
	ModeTest    Mode = "test"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8000"`
	GinMode       Mode   `envconfig:"GIN_MODE" default:"debug"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"default-secret-key-change-me"`

	DB     Database
	Redis  Redis
	JWT    JWT
	Kakao  Kakao
	Verify Verification
	S3     S3
	Mail   Mail
	Log    Log
}

type Database struct {
	Driver   string `envconfig:"DB_DRIVER" default:"mysql"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"tumbluv"`
	Password string `envconfig:"DB_PASSWORD" default:"tumbluv"`
	Name     string `envconfig:"DB_NAME" default:"tumbluv"`
	// Path is only used by the sqlite driver.
	Path string `envconfig:"DB_PATH" default:"tumbluv.db"`
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
}

type JWT struct {
	Secret    string        `envconfig:"JWT_SECRET" default:"change-me"`
	Algorithm string        `envconfig:"JWT_ALGORITHM" default:"HS256"`
	Expire    time.Duration `envconfig:"JWT_EXPIRE" default:"168h"`
}

type Kakao struct {
	APIURL  string        `envconfig:"KAKAO_API_URL" default:"https://kapi.kakao.com"`
	Timeout time.Duration `envconfig:"KAKAO_TIMEOUT" default:"10s"`
}

type Verification struct {
	// Window is how long an issued email code stays valid.
	Window time.Duration `envconfig:"VERIFICATION_WINDOW" default:"60s"`
}

type S3 struct {
	Endpoint        string        `envconfig:"S3_ENDPOINT"`
	BaseURL         string        `envconfig:"S3_BASE_URL"`
	Bucket          string        `envconfig:"S3_BUCKET"`
	Region          string        `envconfig:"S3_REGION" default:"ap-northeast-2"`
	AccessKey       string        `envconfig:"S3_ACCESS_KEY"`
	SecretAccessKey string        `envconfig:"S3_SECRET_KEY"`
	Prefix          string        `envconfig:"S3_PREFIX" default:"thumbnails"`
	UsePathStyle    bool          `envconfig:"S3_PATH_STYLE"`
	PresignExpire   time.Duration `envconfig:"S3_PRESIGN_EXPIRE" default:"15m"`
}

type Mail struct {
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	ResendURL    string `envconfig:"RESEND_URL" default:"https://api.resend.com"`
	From         string `envconfig:"MAIL_FROM" default:"tumbluv <no-reply@tumbluv.com>"`
}

type Log struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	FilePath   string `envconfig:"LOG_FILE_PATH"`
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAge     int    `envconfig:"LOG_MAX_AGE" default:"30"`
	Compress   bool   `envconfig:"LOG_COMPRESS" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.GinMode == "" {
		cfg.GinMode = ModeDebug
	}
	switch cfg.GinMode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		return nil, fmt.Errorf("invalid GIN_MODE %q", cfg.GinMode)
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
