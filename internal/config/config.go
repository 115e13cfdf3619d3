package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string

	JWTSecret string
	JWTExpiry time.Duration

	OTPExpiry time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	OpenAIAPIKey string
	ChatModel    string

	EnrollmentBaseURL string

	// SubmissionRequireLock narrows the uploadable team states to LOCKED only.
	// Default allows uploads from ACTIVE teams as well.
	SubmissionRequireLock bool

	LeaderboardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UploadableTeamStatuses resolves the team states from which submissions may
// be uploaded.
func (c Config) UploadableTeamStatuses() []string {
	if c.SubmissionRequireLock {
		return []string{"locked"}
	}
	return []string{"active", "locked"}
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ProjectDesk API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("otp.expiry", "10m")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("chat.model", "gpt-4o-mini")
	v.SetDefault("enrollment.base_url", "http://localhost:3000")
	v.SetDefault("submission.require_lock", false)
	v.SetDefault("leaderboard.cache_ttl", "30s")

	jwtExpiry, err := time.ParseDuration(v.GetString("jwt.expiry"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt expiry: %w", err)
	}

	otpExpiry, err := time.ParseDuration(v.GetString("otp.expiry"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid otp expiry: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("leaderboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid leaderboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NATSURL:               v.GetString("nats.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		JWTExpiry:             jwtExpiry,
		OTPExpiry:             otpExpiry,
		SMTPHost:              v.GetString("smtp.host"),
		SMTPPort:              v.GetInt("smtp.port"),
		SMTPUser:              v.GetString("smtp.user"),
		SMTPPass:              v.GetString("smtp.pass"),
		MailFrom:              v.GetString("mail.from"),
		OpenAIAPIKey:          v.GetString("openai_api_key"),
		ChatModel:             v.GetString("chat.model"),
		EnrollmentBaseURL:     strings.TrimRight(v.GetString("enrollment.base_url"), "/"),
		SubmissionRequireLock: v.GetBool("submission.require_lock"),
		LeaderboardCacheTTL:   cacheTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	return cfg, nil
}
