package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures all tunable parameters for the server process. Values are
// loaded from environment variables with defaults so the binary can run
// locally without excessive setup.
type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	JWTSecret string
	TokenTTL  time.Duration

	// BookingAutoConfirm selects the creation policy: false inserts new
	// bookings as Pending for staff approval, true inserts them as Confirmed.
	BookingAutoConfirm bool

	UploadDir     string
	PublicBaseURL string

	SendgridAPIKey    string
	SendgridFromEmail string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string

	RunMigrations bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               envOrDefault("PORT", "8080"),
		Environment:        envOrDefault("ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           time.Duration(envIntOrDefault("TOKEN_TTL_HOURS", 24)) * time.Hour,
		BookingAutoConfirm: envBool("BOOKING_AUTO_CONFIRM"),
		UploadDir:          envOrDefault("UPLOAD_DIR", "uploads"),
		PublicBaseURL:      envOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		SendgridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail:  os.Getenv("SENDGRID_FROM_EMAIL"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		RunMigrations:      envBool("RUN_MIGRATIONS"),
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        120 * time.Second,
		ShutdownTimeout:    15 * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return false
	}
	return v
}
