package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

// AuthConfig carries one signing secret per token purpose.
type AuthConfig struct {
	AccessSecret       string `env:"JWT_SECRET_KEY,              required"`
	RefreshSecret      string `env:"JWT_REFRESH_SECRET_KEY,      required"`
	VerificationSecret string `env:"JWT_VERIFICATION_SECRET_KEY, required"`
	ResetSecret        string `env:"JWT_RESET_SECRET_KEY,        required"`
	Algorithm          string `env:"JWT_ALGORITHM,               default=HS256"`

	AccessTokenExpireMinutes  int `env:"ACCESS_TOKEN_EXPIRE_MINUTES,  default=30"`
	RefreshTokenExpireMinutes int `env:"REFRESH_TOKEN_EXPIRE_MINUTES, default=10080"`
	BcryptCost                int `env:"BCRYPT_COST,                  default=10"`
}

func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpireMinutes) * time.Minute
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

// RedisConfig is optional; an empty Addr disables idempotent blog creation.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

const (
	UploadLocal = "local"
	UploadS3    = "s3"
)

type UploadConfig struct {
	Backend   string `env:"UPLOAD_BACKEND,    default=local"`
	Dir       string `env:"UPLOAD_DIR,        default=media"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX, default=/media"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	var errs []error

	secrets := map[string]string{
		"JWT_SECRET_KEY":              c.Auth.AccessSecret,
		"JWT_REFRESH_SECRET_KEY":      c.Auth.RefreshSecret,
		"JWT_VERIFICATION_SECRET_KEY": c.Auth.VerificationSecret,
		"JWT_RESET_SECRET_KEY":        c.Auth.ResetSecret,
	}
	seen := make(map[string]string, len(secrets))
	for _, name := range []string{"JWT_SECRET_KEY", "JWT_REFRESH_SECRET_KEY", "JWT_VERIFICATION_SECRET_KEY", "JWT_RESET_SECRET_KEY"} {
		secret := secrets[name]
		if secret == "" {
			errs = append(errs, fmt.Errorf("%s must be set", name))
			continue
		}
		if other, dup := seen[secret]; dup {
			errs = append(errs, fmt.Errorf("%s must differ from %s", name, other))
			continue
		}
		seen[secret] = name
	}

	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.Auth.Algorithm))
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 || c.Auth.RefreshTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("token expiry minutes must be positive"))
	}

	switch c.Upload.Backend {
	case UploadLocal:
	case UploadS3:
		if c.Upload.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must be set when UPLOAD_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_BACKEND %q is not supported", c.Upload.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
