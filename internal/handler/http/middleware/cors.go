package middleware

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/cors"

	"briefly/pkg/config"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// LoadCORSConfigFromEnv reads CORS_ALLOWED_ORIGINS and CORS_MAX_AGE (seconds).
// The default allows the local frontend dev server.
func LoadCORSConfigFromEnv() CORSConfig {
	return CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxAge:         config.GetEnvInt("CORS_MAX_AGE", 600),
	}
}

// Validate checks that every origin is "*" or a bare http(s) origin.
func (c CORSConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid origin '%s': must use http or https", origin)
		}
		if u.Host == "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("invalid origin '%s': must be scheme://host[:port]", origin)
		}
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("CORS_MAX_AGE must be non-negative")
	}
	return nil
}

// CORS returns the rs/cors middleware for cfg. Credentials are allowed so
// browsers can send the Authorization header; a wildcard origin disables them.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowCredentials = false
		}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-Id", "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           cfg.MaxAge,
	})
	return c.Handler
}
