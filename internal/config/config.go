package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Port          string
	RoomCapacity  int
	SweepInterval time.Duration
	IdleTimeout   time.Duration
	GraceWindow   time.Duration
	GuessTimeout  time.Duration
	RateLimitRPS  float64
	RateBurst     int
}

// Load reads .env if present, then the environment, with defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "3000"),
		RoomCapacity:  getInt("ROOM_CAPACITY", 20),
		SweepInterval: getDuration("SWEEP_INTERVAL", 60*time.Second),
		IdleTimeout:   getDuration("ROOM_IDLE_TIMEOUT", 30*time.Minute),
		GraceWindow:   getDuration("RECONNECT_GRACE", 2*time.Minute),
		GuessTimeout:  getDuration("GUESS_TIMEOUT", 30*time.Second),
		RateLimitRPS:  getFloat("RATE_LIMIT_RPS", 5),
		RateBurst:     getInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
