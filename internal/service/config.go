package service

import (
	"os"
	"time"
)

// Config carries the service settings. Values come from the environment
// with working defaults; nothing here is module-level state.
type Config struct {
	Addr           string
	TemplateDir    string
	WeatherURL     string
	WeatherTimeout time.Duration
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() Config {
	cfg := Config{
		Addr:           ":8000",
		TemplateDir:    "templates",
		WeatherTimeout: 5 * time.Second,
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if dir := os.Getenv("TEMPLATE_DIR"); dir != "" {
		cfg.TemplateDir = dir
	}
	cfg.WeatherURL = os.Getenv("WEATHER_URL")
	if d, err := time.ParseDuration(os.Getenv("WEATHER_TIMEOUT")); err == nil && d > 0 {
		cfg.WeatherTimeout = d
	}
	return cfg
}
