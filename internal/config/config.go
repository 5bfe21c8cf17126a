package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the process reads from the environment.
// `.env` files are loaded by the commands before Load is called.
type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	CheckoutTimeout time.Duration
	DBMaxOpenConns  int
}

func Load() Config {
	return Config{
		Addr:            getenv("APP_ADDR", ":9000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CheckoutTimeout: time.Duration(getenvInt("CHECKOUT_TIMEOUT", 10)) * time.Second,
		DBMaxOpenConns:  getenvInt("DB_MAX_OPEN_CONNS", 25),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
