package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	MySQLDSN  string
	RedisURL  string
	JWTSecret string
	Port      string
	// ClockUnit is the length of one ledger time unit in seconds. Campaign
	// expiry and proposal voting ends are expressed in whole units since
	// ledger genesis.
	ClockUnit int
	SSLCert   string
	SSLKey    string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	unit, err := strconv.Atoi(getenv("CLOCK_UNIT_SECONDS", "86400"))
	if err != nil || unit <= 0 {
		log.Fatalf("invalid CLOCK_UNIT_SECONDS")
	}
	return Config{
		MySQLDSN:  getenv("MYSQL_DSN", "dev:test@tcp(localhost:3306)/caritas"),
		RedisURL:  getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret: getenv("JWT_SECRET", ""),
		Port:      getenv("PORT", "8080"),
		ClockUnit: unit,
		SSLCert:   os.Getenv("SSL_CERT"),
		SSLKey:    os.Getenv("SSL_KEY"),
	}
}
