package utils

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	HTTPAddr   string
	EventsAddr string
	NotifyAddr string

	OMDbAPIKey  string
	OMDbBaseURL string
}

func LoadAppConfig() AppConfig {
	cfg := AppConfig{
		HTTPAddr:    ":8080",
		EventsAddr:  ":7070",
		NotifyAddr:  ":7071",
		OMDbBaseURL: "http://www.omdbapi.com/",
	}

	if v := os.Getenv("MOVIWEB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("MOVIWEB_EVENTS_ADDR"); v != "" {
		cfg.EventsAddr = v
	}
	if v := os.Getenv("MOVIWEB_NOTIFY_ADDR"); v != "" {
		cfg.NotifyAddr = v
	}

	// missing key is fine: lookups then behave as not-found and movies
	// are stored title-only
	cfg.OMDbAPIKey = os.Getenv("OMDB_API_KEY")
	if v := os.Getenv("OMDB_BASE_URL"); v != "" {
		cfg.OMDbBaseURL = v
	}

	return cfg
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MOVIWEB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("MOVIWEB_JWT_ISSUER")
	if issuer == "" {
		issuer = "moviweb"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("MOVIWEB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}
