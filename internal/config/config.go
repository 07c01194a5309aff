// Package config loads portal configuration from a YAML file and/or
// environment variables. Environment classification and the auth policy
// are resolved here once at startup; nothing else in the codebase
// inspects host names or hard-codes identities.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Environment classifies the deployment target.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsProduction reports whether the portal runs against the production site.
func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// Config is the top-level portal configuration.
type Config struct {
	Env        Environment `yaml:"env" env:"PORTAL_ENV" env-default:"development"`
	HTTPServer `yaml:"http_server"`
	RemoteAPI  `yaml:"remote_api"`
	Auth       `yaml:"auth"`
	Sessions   `yaml:"sessions"`
	RateLimit  `yaml:"rate_limit"`
}

// HTTPServer holds listener settings for the portal itself.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"PORTAL_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"PORTAL_READ_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"PORTAL_IDLE_TIMEOUT" env-default:"120s"`
	CookieSecure bool          `yaml:"cookie_secure" env:"PORTAL_COOKIE_SECURE" env-default:"true"`
}

// RemoteAPI describes how to reach the remote Toloni Pescarias service.
// BaseURL may be left empty, in which case a default for the configured
// environment is used.
type RemoteAPI struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"REMOTE_API_TIMEOUT" env-default:"15s"`
}

// Auth carries the policy knobs for the session lifecycle.
type Auth struct {
	AdminEmail     string   `yaml:"admin_email" env:"AUTH_ADMIN_EMAIL" env-default:"admin@tolonipescarias.com"`
	AllowedDomains []string `yaml:"allowed_domains" env:"AUTH_ALLOWED_DOMAINS" env-default:"tolonipescarias.com,gmail.com,hotmail.com,outlook.com,yahoo.com"`
	JWTSecret      string   `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
}

// Sessions controls portal session persistence and revalidation.
type Sessions struct {
	DatabasePath       string        `yaml:"database_path" env:"SESSIONS_DATABASE_PATH" env-default:"portal.db"`
	CookieTTL          time.Duration `yaml:"cookie_ttl" env:"SESSIONS_COOKIE_TTL" env-default:"24h"`
	RevalidateInterval time.Duration `yaml:"revalidate_interval" env:"SESSIONS_REVALIDATE_INTERVAL" env-default:"5m"`
}

// RateLimit bounds repeated attempts per key (login submissions).
type RateLimit struct {
	MaxAttempts int           `yaml:"max_attempts" env:"RATE_LIMIT_MAX_ATTEMPTS" env-default:"5"`
	Window      time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// Policy is the injected auth policy consumed by the session manager.
// It is derived from config so the domain rules are testable in isolation.
type Policy struct {
	AdminEmail           string
	AllowedDomains       []string
	RequireVerifiedEmail bool
}

// IsAdminEmail reports whether email is the designated administrator identity.
func (p Policy) IsAdminEmail(email string) bool {
	return strings.EqualFold(email, p.AdminEmail)
}

// AllowsDomain reports whether the email's domain is on the registration
// allow-list. The administrator email is always allowed.
func (p Policy) AllowsDomain(email string) bool {
	if p.IsAdminEmail(email) {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range p.AllowedDomains {
		if domain == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// MustLoad reads configuration from CONFIG_PATH if set, falling back to
// environment variables only. It exits the process on failure.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Fatalf("config file %s does not exist", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	if cfg.RemoteAPI.BaseURL == "" {
		cfg.RemoteAPI.BaseURL = defaultBaseURL(cfg.Env)
	}
	return &cfg
}

// AuthPolicy resolves the session policy for the configured environment.
// Unverified emails are tolerated outside production.
func (c *Config) AuthPolicy() Policy {
	return Policy{
		AdminEmail:           c.Auth.AdminEmail,
		AllowedDomains:       c.Auth.AllowedDomains,
		RequireVerifiedEmail: c.Env.IsProduction(),
	}
}

func defaultBaseURL(env Environment) string {
	if env.IsProduction() {
		return "https://tolonipescarias.com/api"
	}
	return "http://localhost:8000/api"
}
