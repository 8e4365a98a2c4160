package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Addr          string
	AnnounceDelay time.Duration
	DatabaseURL   string
	Dev           bool
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		AnnounceDelay: 200 * time.Millisecond,
	}
}

// FromEnv overlays environment values on the defaults.
func FromEnv() Config {
	c := Default()
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ANNOUNCE_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.AnnounceDelay = time.Duration(ms) * time.Millisecond
		}
	}
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("DEV"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Dev = b
		}
	}
	return c
}
