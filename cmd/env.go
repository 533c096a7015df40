package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/caseworks/directory-cli/internal/distance"
	"github.com/caseworks/directory-cli/internal/loader"
	"github.com/caseworks/directory-cli/internal/store"
	"github.com/caseworks/directory-cli/internal/translate"
	"github.com/caseworks/directory-cli/internal/typetab"
	"github.com/caseworks/directory-cli/pkg/anthropic"
	"github.com/caseworks/directory-cli/pkg/geocode"
	"github.com/caseworks/directory-cli/pkg/routing"
)

// appEnv bundles the collaborators a search context needs.
type appEnv struct {
	Store    store.Store
	Snapshot *loader.Snapshot
	Types    *typetab.Table
	Session  *translate.Session
	Geocoder geocode.Client
	Router   distance.Router
}

// initEnv opens the store, bulk-loads the snapshot, and wires the optional
// external clients. Translation and geocoding stay nil when unconfigured;
// callers degrade accordingly.
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	snap, err := loader.Load(ctx, st)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	types, err := loadTypeTable()
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	env := &appEnv{
		Store:    st,
		Snapshot: snap,
		Types:    types,
	}

	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key)
		env.Session = translate.NewSession(translate.New(client, cfg.Anthropic.Model))
	}
	if cfg.Geocode.BaseURL != "" {
		env.Geocoder = geocode.NewClient(cfg.Geocode.BaseURL,
			geocode.WithRateLimit(cfg.Geocode.RatePerSecond))
	}
	if cfg.Routing.Enabled && cfg.Routing.BaseURL != "" {
		client := routing.NewClient(cfg.Routing.BaseURL,
			routing.WithRateLimit(cfg.Routing.RatePerSecond))
		env.Router = distance.NewTableRouter(client)
	}

	return env, nil
}

// loadTypeTable reads the configured YAML override or falls back to the
// embedded seed.
func loadTypeTable() (*typetab.Table, error) {
	if cfg.Types.Path == "" {
		return typetab.Builtin(), nil
	}
	f, err := os.Open(cfg.Types.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "open type table %s", cfg.Types.Path)
	}
	defer f.Close() //nolint:errcheck
	return typetab.Load(f)
}

// Close releases held resources.
func (e *appEnv) Close() {
	if e.Store != nil {
		e.Store.Close() //nolint:errcheck
	}
}

// translateContext builds the vocabulary handed to the translator.
func (e *appEnv) translateContext() translate.Context {
	zips := make([]string, 0, len(e.Snapshot.Zips))
	for z := range e.Snapshot.Zips {
		zips = append(zips, z)
	}
	return translate.Context{
		AssistanceTypes: e.Types.All(),
		ZipCodes:        zips,
	}
}
