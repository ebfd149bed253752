// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Each field maps to one
// environment variable; Load enforces the required ones at startup.
type Config struct {
	Env            string // APP_ENV (dev/test/prod)
	Port           string // APP_PORT
	DBUser         string // DB_USER
	DBPass         string // DB_PASS, empty allowed
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	JWTSecret      string // JWT_SECRET
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int    // bcrypt cost for password hashing
	SeatPriceCents uint32 // flat per-seat ticket price in cents
}

// Load reads configuration from the environment. Missing required
// variables abort startup with a fatal log.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		SeatPriceCents: uint32(intOr("SEAT_PRICE_CENTS", 1500)),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
