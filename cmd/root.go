package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "Progress sync core for the lingua language-learning chat",
	Long: "Lingua's client-side progress synchronization core: realtime XP, " +
		"level, accuracy, and daily-streak state, kept current by bounded " +
		"polling against the progress backend.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary is a convenience for local development.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUA_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/lingua/config.toml)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LINGUA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
