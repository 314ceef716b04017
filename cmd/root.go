package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/auth"
	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "adaptest",
	Short: "Terminal client for adaptive tests",
	Long:  "adaptest runs adaptive tests in the terminal and gives admins the question bank and results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Backend API base URL (overrides ADAPTEST_SERVER_URL)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADAPTEST_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the config: defaults, YAML file, environment, then
// flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.ServerURL = s
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the configured database path, then ADAPTEST_DB,
// then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// deps is what every command that talks to the backend needs.
type deps struct {
	cfg    config.Config
	store  *store.Store
	client *api.Client
	auth   *auth.Service
}

func (d *deps) Close() error {
	return d.store.Close()
}

// openDeps loads config, opens the store and builds the API client and
// auth service. Stored credentials are restored when present.
func openDeps(cmd *cobra.Command) (*deps, *auth.User, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	events := st.EventRepo()
	tokens := &api.TokenStore{}
	client := api.NewFromConfig(cfg, tokens, events)
	svc := auth.NewService(client, st.CredentialRepo(), tokens, cfg.ServerURL)

	user, err := svc.Restore(cmd.Context())
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return &deps{cfg: cfg, store: st, client: client, auth: svc}, user, nil
}

// errNotLoggedIn is returned by commands that need a stored token.
var errNotLoggedIn = errors.New("not logged in (run: adaptest login --email you@example.com)")
