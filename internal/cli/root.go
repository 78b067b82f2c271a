// Package cli provides the command-line interface for the trading journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies. The store and journal are opened
// on first use so config commands work without a database.
type App struct {
	ConfigDir string
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	Journal   *journal.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	app := &App{Logger: logger}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trading journal for forex and index traders",
		Long: `journal records discretionary trades, derives P&L and risk for forex
pairs and stock indices, and reports performance per account.

Use 'journal <command> --help' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	addTradeCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addTransferCommands(rootCmd, app)
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func (app *App) setup(cmd *cobra.Command) error {
	app.ConfigDir, _ = cmd.Flags().GetString("config")
	cfg, err := config.Load(app.ConfigDir)
	if err != nil {
		return err
	}
	app.Config = cfg
	app.ConfigDir = cfg.Dir
	app.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}
	return nil
}

// openJournal opens the store and the journal service once per process.
func (app *App) openJournal(ctx context.Context) (*journal.Service, error) {
	if app.Journal != nil {
		return app.Journal, nil
	}

	dbPath := app.Config.Journal.DBPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	app.Logger.Debug().Str("path", dbPath).Msg("SQLite store initialized")

	svc := journal.New(st, journal.OptionsFromConfig(app.Config, app.Logger))
	if err := svc.Open(ctx); err != nil {
		svc.Close()
		st.Close()
		return nil, errors.Wrap(err, "open journal")
	}

	app.Store = st
	app.Journal = svc
	return svc, nil
}

// Close releases the journal and the store.
func (app *App) Close() error {
	if app.Journal != nil {
		app.Journal.Close()
		app.Journal = nil
	}
	if app.Store != nil {
		err := app.Store.Close()
		app.Store = nil
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trade Journal v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the journal configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := config.Path(app.ConfigDir)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Account Defaults")
	output.Printf("  Name:            %s\n", cfg.Account.DefaultName)
	output.Printf("  Balance:         %s\n", FormatCurrency(cfg.Account.DefaultBalance, cfg.Account.DefaultCurrency))
	output.Printf("  Currency:        %s\n", cfg.Account.DefaultCurrency)
	output.Printf("  Leverage:        1:%d\n", cfg.Account.DefaultLeverage)
	output.Printf("  Risk per trade:  %.2f%%\n", cfg.Account.RiskPerTrade)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Owner:           %s\n", cfg.Journal.OwnerID)
	output.Printf("  Database:        %s\n", cfg.Journal.DBPath)
	output.Printf("  Import batch:    %d\n", cfg.Journal.BatchSize)
	output.Printf("  Workers:         %d\n", cfg.Journal.Workers)
	output.Println()

	output.Bold("Server")
	output.Printf("  Port:            %d\n", cfg.Server.Port)
	output.Printf("  Dev mode:        %v\n", cfg.Server.DevMode)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %s\n", cfg.Logging.FilePath)
}
