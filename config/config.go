package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string `mapstructure:"APP_ENV"`
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Snapshot storage: sqlite | postgres | redis | memory
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Mission generation: gemini | local
	MissionProvider string `mapstructure:"MISSION_PROVIDER"`
	GeminiAPIKey    string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL   string `mapstructure:"GEMINI_BASE_URL"`

	VerificationDelay time.Duration `mapstructure:"VERIFICATION_DELAY"`
	FeedInterval      time.Duration `mapstructure:"FEED_INTERVAL"`
	FeedWindow        int           `mapstructure:"FEED_WINDOW"`

	// Proof uploads: local | r2
	ProofStorage string `mapstructure:"PROOF_STORAGE"`
	UploadDir    string `mapstructure:"UPLOAD_DIR"`

	CloudflareAccountID string `mapstructure:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID       string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret   string `mapstructure:"R2_ACCESS_KEY_SECRET"`
	R2BucketName        string `mapstructure:"R2_BUCKET_NAME"`
	CDNBaseURL          string `mapstructure:"CDN_BASE_URL"`
}

var defaults = map[string]any{
	"APP_ENV":               "development",
	"PORT":                  "5200",
	"ALLOWED_ORIGINS":       "http://localhost:3000",
	"STORE_DRIVER":          "sqlite",
	"SQLITE_PATH":           "mission_bridge.db",
	"DATABASE_URL":          "",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"MISSION_PROVIDER":      "gemini",
	"GEMINI_API_KEY":        "",
	"GEMINI_MODEL":          "gemini-2.5-flash",
	"GEMINI_BASE_URL":       "",
	"VERIFICATION_DELAY":    "1500ms",
	"FEED_INTERVAL":         "8s",
	"FEED_WINDOW":           10,
	"PROOF_STORAGE":         "local",
	"UPLOAD_DIR":            "uploads",
	"CLOUDFLARE_ACCOUNT_ID": "",
	"R2_ACCESS_KEY_ID":      "",
	"R2_ACCESS_KEY_SECRET":  "",
	"R2_BUCKET_NAME":        "",
	"CDN_BASE_URL":          "",
}

// Load reads .env (if any) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.MissionProvider = strings.ToLower(strings.TrimSpace(cfg.MissionProvider))
	cfg.ProofStorage = strings.ToLower(strings.TrimSpace(cfg.ProofStorage))
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS and trims each entry.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	for i, origin := range parts {
		parts[i] = strings.TrimSpace(origin)
	}
	return strings.Join(parts, ",")
}
