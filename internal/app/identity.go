package app

import (
	"context"
	"errors"
	"net/http"

	"entry-gate/internal/auth/credentials"
	"entry-gate/internal/auth/provider"
	"entry-gate/internal/auth/provider/google"
	"entry-gate/internal/auth/provider/keycloak"
	"entry-gate/internal/auth/resolver"
	"entry-gate/internal/auth/source"
	"entry-gate/internal/auth/source/appservice"
	"entry-gate/internal/auth/source/delegated"
	"entry-gate/internal/config"
	"entry-gate/internal/logger"
)

// setupSource builds the one identity source the deployment runs with,
// plus the OAuth providers browser sign-in can use.
func setupSource(ctx context.Context, cfg config.Config, infra *Infra) (source.Source, *provider.Registry, error) {
	switch cfg.Variant() {
	case source.VariantApplication:
		// federated sign-in needs a delegated source
		registry := provider.NewRegistry()

		if cfg.BackendURL != "" {
			remote, err := appservice.NewRemote(cfg.BackendURL, &http.Client{})
			if err != nil {
				return nil, nil, err
			}
			logger.Info("identity source ready", map[string]any{"source": "application", "backend": cfg.BackendURL})
			return remote, registry, nil
		}

		if infra.DB == nil {
			return nil, nil, errors.New("app: local application source requires a database")
		}
		accounts := credentials.NewService(infra.DB, credentials.NewHasher(cfg.BcryptCost))
		logger.Info("identity source ready", map[string]any{"source": "application", "backend": "local"})
		return appservice.NewLocal(accounts), registry, nil

	case source.VariantDelegated:
		kc, err := keycloak.New(ctx, keycloak.Options{
			BaseURL:           cfg.KeycloakBaseURL,
			PublicBaseURL:     cfg.KeycloakPublicBaseURL,
			Realm:             cfg.KeycloakRealm,
			ClientID:          cfg.KeycloakClientID,
			ClientSecret:      cfg.KeycloakClientSecret,
			RedirectURL:       cfg.KeycloakRedirectURL,
			AdminClientID:     cfg.KeycloakAdminClientID,
			AdminClientSecret: cfg.KeycloakAdminClientSecret,
		})
		if err != nil {
			return nil, nil, err
		}

		providers := []provider.OAuthProvider{kc}
		if cfg.GoogleEnabled() {
			g, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
			if err != nil {
				return nil, nil, err
			}
			providers = append(providers, g)
		}

		// without a service account the realm cannot create users
		var registrar delegated.UserRegistrar
		if cfg.KeycloakAdminClientID != "" {
			registrar = kc
		}

		registry := provider.NewRegistry(providers...)
		logger.Info("identity source ready", map[string]any{
			"source":    "delegated",
			"providers": registry.Names(),
			"signup":    registrar != nil,
		})
		return delegated.New(kc, registrar, registry), registry, nil
	}

	return nil, nil, errors.New("app: no identity source configured")
}

// setupResolver picks the role strategy. The role store is returned
// separately so signup can persist requested roles even when login
// still infers them.
func setupResolver(cfg config.Config, infra *Infra) (resolver.Resolver, resolver.RoleStore) {
	var store resolver.RoleStore
	if infra.DB != nil {
		store = resolver.NewDBStore(infra.DB)
	}

	switch cfg.RoleStrategy {
	case config.RoleStrategyStored:
		return resolver.NewStored(store, nil), store
	case config.RoleStrategyStoredThenInferred:
		return resolver.NewStored(store, resolver.Inference{}), store
	}

	if cfg.Variant() == source.VariantDelegated {
		logger.Warn("roles are inferred from email addresses", map[string]any{
			"role_strategy": cfg.RoleStrategy,
		})
	}
	return resolver.Inference{}, store
}
