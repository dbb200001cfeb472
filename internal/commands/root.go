package commands

import (
	"admin-dashboard-api/internal/auth"
	"admin-dashboard-api/internal/config"
	"admin-dashboard-api/internal/database"
	"admin-dashboard-api/internal/logging"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg is loaded once per invocation, before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "admin-dashboard-api",
	Short: "Admin dashboard backend with a shared kanban board",
	Long: `admin-dashboard-api serves the admin dashboard: login, users and a kanban
board whose drag-and-drop moves are persisted to SQLite and streamed to every
connected client.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyFlags(cmd)
		logging.Setup(cfg.LogLevel, cfg.LogFormat)
		auth.Configure(auth.Settings{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		})
	},
}

// applyFlags lets explicit flags win over environment values.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
}

// withDB wraps a command function to open the database first
func withDB(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := database.InitDB(cfg.DBPath, cfg.DBLogSQL); err != nil {
			return err
		}
		defer database.Close()
		return fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	cfg = config.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}
