package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Cycle counting: whether an already-COUNTED entry may be counted
	// again (overwriting the first result). Off by default to protect the
	// audit trail.
	AllowRecount bool

	// Sage Intacct XML gateway credentials. Sync endpoints report a clean
	// "not configured" result when these are empty.
	SageEndpoint       string
	SageSenderID       string
	SageSenderPassword string
	SageCompanyID      string
	SageUserID         string
	SageUserPassword   string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=stocktrack port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AllowRecount: getEnv("ALLOW_RECOUNT", "false") == "true",

		SageEndpoint:       getEnv("SAGE_ENDPOINT", "https://api.intacct.com/ia/xml/xmlgw.phtml"),
		SageSenderID:       getEnv("SAGE_SENDER_ID", ""),
		SageSenderPassword: getEnv("SAGE_SENDER_PASSWORD", ""),
		SageCompanyID:      getEnv("SAGE_COMPANY_ID", ""),
		SageUserID:         getEnv("SAGE_USER_ID", ""),
		SageUserPassword:   getEnv("SAGE_USER_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set, refusing to start.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=stocktrack port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the development default, set your own Postgres DSN for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
