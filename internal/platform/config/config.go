package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// Shared HS256 key and issuer id for JWTs exchanged with the verifier
	// server.
	VerifierSecret   string
	VerifierIssuerID string

	// RequestValidity bounds how long a session result JWT from the verifier
	// stays usable.
	RequestValidity time.Duration

	// VerifierTimeout bounds a single verifier call; expiry is treated as a
	// proof rejection.
	VerifierTimeout time.Duration

	// SessionTTL is how long a created session waits for a response before
	// it expires.
	SessionTTL time.Duration

	// SweepInterval is how often expired sessions are reclaimed.
	SweepInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             ":8080",
		VerifierSecret:   "unsafe_secret_key",
		VerifierIssuerID: "diyivi",
		RequestValidity:  2 * time.Minute,
		VerifierTimeout:  10 * time.Second,
		SessionTTL:       15 * time.Minute,
		SweepInterval:    time.Minute,
	}

	if addr := os.Getenv("DIYIVI_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if secret := os.Getenv("VERIFIER_SECRET_KEY"); secret != "" {
		cfg.VerifierSecret = secret
	}
	if issuer := os.Getenv("VERIFIER_ISSUER_ID"); issuer != "" {
		cfg.VerifierIssuerID = issuer
	}
	if d, err := time.ParseDuration(os.Getenv("REQUEST_VALIDITY")); err == nil && d > 0 {
		cfg.RequestValidity = d
	}
	if d, err := time.ParseDuration(os.Getenv("VERIFIER_TIMEOUT")); err == nil && d > 0 {
		cfg.VerifierTimeout = d
	}
	if d, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && d > 0 {
		cfg.SessionTTL = d
	}
	if d, err := time.ParseDuration(os.Getenv("SWEEP_INTERVAL")); err == nil && d > 0 {
		cfg.SweepInterval = d
	}

	return cfg
}
