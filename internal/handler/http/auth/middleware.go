// Package auth authenticates API callers with HS256 bearer tokens.
// The token subject becomes the user id that owns stored summaries.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"briefly/internal/handler/http/respond"
	"briefly/pkg/config"
)

type ctxKey string

const ctxUser ctxKey = "user"

// minSecretLength is the shortest accepted HS256 secret.
const minSecretLength = 32

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
	errNotEnabled   = errors.New("authentication is not configured")
)

// Config holds authentication settings.
type Config struct {
	// Secret is the HS256 signing key. Empty disables authentication.
	Secret string
	// Required makes the summarize routes reject anonymous callers.
	Required bool
}

// LoadConfigFromEnv reads JWT_SECRET and AUTH_REQUIRED.
func LoadConfigFromEnv() Config {
	return Config{
		Secret:   config.GetEnvString("JWT_SECRET", ""),
		Required: config.GetEnvBool("AUTH_REQUIRED", false),
	}
}

// Validate checks the secret strength when authentication is enabled.
func (c Config) Validate() error {
	if c.Secret != "" && len(c.Secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.Required && c.Secret == "" {
		return errors.New("AUTH_REQUIRED needs JWT_SECRET")
	}
	return nil
}

// Authenticator validates bearer tokens and attaches the user to the request context.
type Authenticator struct {
	secret   []byte
	required bool
}

// NewAuthenticator creates an Authenticator from cfg.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{secret: []byte(cfg.Secret), required: cfg.Required}
}

// Enabled reports whether a signing secret is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Optional attaches the user when a valid token is present and rejects an
// invalid one. Requests without a token pass through anonymously unless the
// authenticator was configured as required.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	if a.required {
		return a.Required(next)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !a.Enabled() {
			RecordAuthRequest("optional", "anonymous")
			next.ServeHTTP(w, r)
			return
		}
		a.serve(w, r, next, authz, "optional")
	})
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			RecordAuthRequest("required", "failure")
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", errNotEnabled))
			return
		}
		a.serve(w, r, next, r.Header.Get("Authorization"), "required")
	})
}

func (a *Authenticator) serve(w http.ResponseWriter, r *http.Request, next http.Handler, authz, mode string) {
	start := time.Now()
	user, err := validateJWT(authz, a.secret)
	RecordAuthDuration(mode, time.Since(start).Seconds())
	if err != nil {
		RecordAuthRequest(mode, "failure")
		respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
		return
	}
	RecordAuthRequest(mode, "success")
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the authenticated user id, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(ctxUser).(string)
	return user, ok && user != ""
}

func validateJWT(authz string, secret []byte) (string, error) {
	const prefix = "Bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", errMissingToken
	}
	tokenString := strings.TrimSpace(authz[len(prefix):])
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("token expired")
		}
		return "", errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if _, ok := claims["exp"].(float64); !ok {
		return "", errors.New("invalid exp claim")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid sub claim")
	}
	return sub, nil
}
