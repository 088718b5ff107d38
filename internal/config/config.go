package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDatabaseURL      = "file:mavina.db?_pragma=foreign_keys(1)"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTTTL           = "24h"
	defaultSlotStep         = "30m"
	defaultTimeZone         = "Europe/Istanbul"
	defaultGeocodeTimeout   = "5s"
	defaultGeocodeCacheTTL  = "168h"
	defaultNominatimURL     = "https://nominatim.openstreetmap.org/reverse"
	defaultGoogleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultSweepSpec        = "@every 15m"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	SlotStep time.Duration
	Location *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GoogleMapsAPIKey string
	NominatimURL     string
	GoogleGeocodeURL string
	GeocodeTimeout   time.Duration
	GeocodeCacheTTL  time.Duration

	SweepSpec          string
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.SlotStep, err = parseDurationEnv("SLOT_STEP", defaultSlotStep); err != nil {
		return nil, err
	}
	if cfg.GeocodeTimeout, err = parseDurationEnv("GEOCODE_TIMEOUT", defaultGeocodeTimeout); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheTTL, err = parseDurationEnv("GEOCODE_CACHE_TTL", defaultGeocodeCacheTTL); err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(getEnv("TIME_ZONE", defaultTimeZone))
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE value %q: %w", tz, err)
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	cfg.GoogleMapsAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	cfg.NominatimURL = strings.TrimSpace(getEnv("NOMINATIM_URL", defaultNominatimURL))
	cfg.GoogleGeocodeURL = strings.TrimSpace(getEnv("GOOGLE_GEOCODE_URL", defaultGoogleGeocodeURL))
	cfg.SweepSpec = strings.TrimSpace(getEnv("SWEEP_SPEC", defaultSweepSpec))

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SlotStep < 5*time.Minute || cfg.SlotStep > 4*time.Hour {
		return fmt.Errorf("SLOT_STEP must be between 5m and 4h")
	}
	if (24*time.Hour)%cfg.SlotStep != 0 {
		return fmt.Errorf("SLOT_STEP must divide a day evenly")
	}
	if cfg.GeocodeTimeout <= 0 {
		return fmt.Errorf("GEOCODE_TIMEOUT must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.JWTSecret) < 32 {
			return fmt.Errorf("in prod/release JWT_SECRET must be at least 32 characters")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
