package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/finance-control/internal/cli"
	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state resolved by the root command before any subcommand runs.
type app struct {
	settings    *config.Settings
	cfgFile     string
	dbPath      string
	envFile     string
	jsonOutput  bool
	assumeYes   bool
	initialized bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "finance",
		Short: cli.MoneyIcon + " Personal income and expense tracker",
		Long: `finance-control: record income and expenses in a local SQLite database,
organize them by category, and see where the money goes with balances,
charts, reports and a terminal dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", config.DefaultSettingsFile, "settings file (JSON)")
	flags.StringVar(&a.dbPath, "db", "", "database file (overrides database.path)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before settings")
	flags.BoolVar(&a.jsonOutput, "json", false, "print machine-readable JSON")
	flags.BoolVarP(&a.assumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(categoriesCmd(a))
	rootCmd.AddCommand(transactionsCmd(a))
	rootCmd.AddCommand(balanceCmd(a))
	rootCmd.AddCommand(summaryCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(backupCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(settingsCmd(a))
	rootCmd.AddCommand(dashboardCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func (a *app) initConfig() error {
	if a.initialized {
		return nil
	}

	if err := config.LoadEnvFiles(a.envFile); err != nil {
		return err
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	settings, err := config.Load(a.cfgFile)
	if err != nil {
		return common.NewUserError("could not load settings", err)
	}
	a.settings = settings
	a.initialized = true
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			slog.Debug("finance version", "version", version)
			fmt.Fprintf(cmd.OutOrStdout(), "finance %s\n", version)
		},
	}
}
