package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	EnvProduction = "production"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	Password PasswordConfig
	OTP      OTPConfig
	Limits   LimitConfig
}

type AppConfig struct {
	Name       string
	Env        string
	Port       string
	Debug      bool
	LogPath    string
	ClientURLs []string

	// Forwarding headers are honoured only from these peers.
	TrustedProxies []netip.Prefix
}

func (c AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

type OTPConfig struct {
	VerifyTTLMinutes int
	ResetTTLMinutes  int
}

func (c OTPConfig) VerifyTTL() time.Duration {
	return time.Duration(c.VerifyTTLMinutes) * time.Minute
}

func (c OTPConfig) ResetTTL() time.Duration {
	return time.Duration(c.ResetTTLMinutes) * time.Minute
}

type LimitConfig struct {
	MaxLoginAttempts     int
	MaxOTPAttempts       int
	AttemptWindowMinutes int
	RateLimitPerMinute   int
}

func (c LimitConfig) AttemptWindow() time.Duration {
	return time.Duration(c.AttemptWindowMinutes) * time.Minute
}

// LoadConfig reads path (a .env file) when it exists; environment variables
// always win.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "advance-auth")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "4000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "advance-auth")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_EXPIRY_HOURS", 168)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("VERIFY_OTP_TTL_MINUTES", 24*60)
	v.SetDefault("RESET_OTP_TTL_MINUTES", 15)
	v.SetDefault("MAX_LOGIN_ATTEMPTS", 10)
	v.SetDefault("MAX_OTP_ATTEMPTS", 5)
	v.SetDefault("ATTEMPT_WINDOW_MINUTES", 15)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	proxies, err := parsePrefixes(splitList(v.GetString("TRUSTED_PROXIES")))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:       v.GetString("APP_NAME"),
			Env:        v.GetString("APP_ENV"),
			Port:       v.GetString("PORT"),
			Debug:      v.GetBool("DEBUG"),
			LogPath:    v.GetString("LOG_PATH"),
			ClientURLs: splitList(v.GetString("CLIENT_URL")),

			TrustedProxies: proxies,
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASS"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("SENDER_EMAIL"),
		},
		Password: PasswordConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
			Pepper:     v.GetString("PASSWORD_PEPPER"),
		},
		OTP: OTPConfig{
			VerifyTTLMinutes: v.GetInt("VERIFY_OTP_TTL_MINUTES"),
			ResetTTLMinutes:  v.GetInt("RESET_OTP_TTL_MINUTES"),
		},
		Limits: LimitConfig{
			MaxLoginAttempts:     v.GetInt("MAX_LOGIN_ATTEMPTS"),
			MaxOTPAttempts:       v.GetInt("MAX_OTP_ATTEMPTS"),
			AttemptWindowMinutes: v.GetInt("ATTEMPT_WINDOW_MINUTES"),
			RateLimitPerMinute:   v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.Store.Driver != StoreMongo && c.Store.Driver != StorePostgres {
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrefixes accepts CIDRs ("10.0.0.0/8") and bare addresses.
func parsePrefixes(items []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range items {
		if p, err := netip.ParsePrefix(item); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", item)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
