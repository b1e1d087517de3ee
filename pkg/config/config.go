package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	FirebaseCredentials string
	GoogleProjectID     string
	PubSubMessageTopic  string
	PubSubSweepTopic    string
	DatabaseURL         string
	SweepInterval       time.Duration
	SweepSchedulerOn    bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	sweepInterval := 24 * time.Hour
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sweepInterval = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		PubSubMessageTopic:  getEnv("PUBSUB_MESSAGE_TOPIC", "chat-messages"),
		PubSubSweepTopic:    getEnv("PUBSUB_SWEEP_TOPIC", "token-sweep"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SweepInterval:       sweepInterval,
		SweepSchedulerOn:    getEnv("SWEEP_SCHEDULER_ENABLED", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
