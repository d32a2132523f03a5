package config

import (
	"errors"
	"fmt"
	"time"

	"entry-gate/internal/auth/source"

	"github.com/caarlos0/env/v11"
)

// Role strategies.
const (
	RoleStrategyInferred           = "inferred"
	RoleStrategyStored             = "stored"
	RoleStrategyStoredThenInferred = "stored_then_inferred"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	IdentitySource string        `env:"IDENTITY_SOURCE" envDefault:"delegated"`
	RoleStrategy   string        `env:"ROLE_STRATEGY"   envDefault:"inferred"`
	AuthTimeout    time.Duration `env:"AUTH_TIMEOUT"    envDefault:"10s"`

	SessionTTL   time.Duration `env:"SESSION_TTL"   envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`

	// application source: remote backend when set, local accounts otherwise
	BackendURL string `env:"BACKEND_URL"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"12"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakBaseURL           string `env:"KEYCLOAK_BASE_URL"`
	KeycloakPublicBaseURL     string `env:"KEYCLOAK_PUBLIC_BASE_URL"`
	KeycloakRealm             string `env:"KEYCLOAK_REALM"`
	KeycloakClientID          string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakClientSecret      string `env:"KEYCLOAK_CLIENT_SECRET"`
	KeycloakRedirectURL       string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakAdminClientID     string `env:"KEYCLOAK_ADMIN_CLIENT_ID"`
	KeycloakAdminClientSecret string `env:"KEYCLOAK_ADMIN_CLIENT_SECRET"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Variant returns the parsed identity source. Valid after Validate.
func (c Config) Variant() source.Variant {
	v, _ := source.ParseVariant(c.IdentitySource)
	return v
}

// UsesRoleStore reports whether the role strategy reads the role store.
func (c Config) UsesRoleStore() bool {
	return c.RoleStrategy == RoleStrategyStored || c.RoleStrategy == RoleStrategyStoredThenInferred
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// Validate checks cross-field rules env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	variant, err := source.ParseVariant(c.IdentitySource)
	if err != nil {
		errs = append(errs, err)
	}

	switch c.RoleStrategy {
	case RoleStrategyInferred, RoleStrategyStored, RoleStrategyStoredThenInferred:
	default:
		errs = append(errs, fmt.Errorf("config: unknown ROLE_STRATEGY %q", c.RoleStrategy))
	}

	if c.AuthTimeout <= 0 {
		errs = append(errs, errors.New("config: AUTH_TIMEOUT must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: SESSION_TTL must be positive"))
	}

	if c.UsesRoleStore() && c.DatabaseDSN == "" {
		errs = append(errs, fmt.Errorf("config: ROLE_STRATEGY %q requires DATABASE_DSN", c.RoleStrategy))
	}

	switch variant {
	case source.VariantApplication:
		if c.BackendURL == "" && c.DatabaseDSN == "" {
			errs = append(errs, errors.New("config: application source requires BACKEND_URL or DATABASE_DSN"))
		}
	case source.VariantDelegated:
		if c.KeycloakBaseURL == "" || c.KeycloakRealm == "" || c.KeycloakClientID == "" || c.KeycloakRedirectURL == "" {
			errs = append(errs, errors.New("config: delegated source requires KEYCLOAK_BASE_URL, KEYCLOAK_REALM, KEYCLOAK_CLIENT_ID and KEYCLOAK_REDIRECT_URL"))
		}
	}

	if c.GoogleEnabled() && (c.GoogleClientSecret == "" || c.GoogleRedirectURL == "") {
		errs = append(errs, errors.New("config: GOOGLE_CLIENT_ID set without GOOGLE_CLIENT_SECRET or GOOGLE_REDIRECT_URL"))
	}

	return errors.Join(errs...)
}
