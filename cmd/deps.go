package cmd

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/api"
	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/store"
)

// deps is the wired object graph a command needs. Close releases the
// store.
type deps struct {
	cfg    config.Config
	store  *store.Store
	client *api.Client
	cache  *progress.Cache
	engine *progress.Engine
	clock  clockwork.Clock
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// buildDeps resolves configuration, opens the store, and wires the API
// client, cache, and polling engine.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	file, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := config.Resolve(file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	apiCfg := api.DefaultConfig()
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.Token = cfg.Token
	client := api.NewClient(apiCfg)

	clock := clockwork.NewRealClock()
	cache := progress.NewCache(client, st.Local(), clock, cfg.Timings)
	engine := progress.NewEngine(cache, clock, cfg.Timings)

	return &deps{
		cfg:    cfg,
		store:  st,
		client: client,
		cache:  cache,
		engine: engine,
		clock:  clock,
	}, nil
}

// requireBackend rejects commands that need the network when no base URL
// is configured.
func (d *deps) requireBackend() error {
	apiCfg := api.Config{BaseURL: d.cfg.BaseURL, Token: d.cfg.Token}
	return apiCfg.Validate()
}
