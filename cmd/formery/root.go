package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/formery/formery"
	"github.com/formery/formery/internal/logging"
	"github.com/formery/formery/pkg/catalog"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "formery",
	Short:   "Formery compiles and runs questionnaire notations",
	Long:    `Formery parses declarative questionnaire notations into state machines, validates them against a question catalog, and runs them interactively.`,
	Version: Version,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("dir", "d", ".", "directory containing notation source files")
	rootCmd.PersistentFlags().BoolP("recursive", "r", false, "scan the notation directory recursively")
	rootCmd.PersistentFlags().StringP("questions", "q", "", "YAML file of question definitions")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("allow-implicit-end-states", false, "tolerate nodes without transitions during validation")

	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("recursive", rootCmd.PersistentFlags().Lookup("recursive"))
	_ = viper.BindPFlag("questions", rootCmd.PersistentFlags().Lookup("questions"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("allow-implicit-end-states", rootCmd.PersistentFlags().Lookup("allow-implicit-end-states"))
}

func initConfig() {
	viper.SetConfigName(".formery")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("FORMERY")
	viper.AutomaticEnv()
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger from the configured level.
func newLogger() *slog.Logger {
	return logging.New(logging.ParseLevel(viper.GetString("log-level")))
}

// newEngine wires an engine from CLI configuration and loads the
// notation directory.
func newEngine(opts ...formery.Option) (*formery.Engine, error) {
	opts = append(opts, formery.WithLogger(newLogger()))
	if viper.GetBool("allow-implicit-end-states") {
		opts = append(opts, formery.WithImplicitEndStates())
	}

	if path := viper.GetString("questions"); path != "" {
		defs, err := catalog.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load question catalog: %w", err)
		}
		opts = append(opts, formery.WithCatalog(defs))
	}

	eng := formery.New(opts...)
	if _, err := eng.LoadDirectory(viper.GetString("dir"), viper.GetBool("recursive")); err != nil {
		return nil, err
	}
	return eng, nil
}
