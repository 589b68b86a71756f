// main.go bootstraps wft: it builds the root Cobra command, wires config
// binding, and executes with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dbPath string
	logLevel := "info"
	cmd := &cobra.Command{
		Use:           "wft",
		Short:         "Comparative web-platform feature status tables",
		Long:          "wft renders Baseline availability and per-browser test conformance for web-platform features, as a terminal table or a small HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultCatalogPath(), "Path to the feature catalog database")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level for wft output (debug, info, warn, or error)")

	tableCmd := newTableCommand(&dbPath)
	serveCmd := newServeCommand(&dbPath, &logLevel)
	importCmd := newImportCommand(&dbPath)
	snapshotCmd := newSnapshotCommand(&dbPath, &logLevel)
	cmd.AddCommand(tableCmd, serveCmd, importCmd, snapshotCmd)
	cmd.Example = `  # Render the default table sorted by baseline status
  wft table

  # Show baseline dates and sort by name
  wft table --column-options baseline_status_low_date,baseline_status_high_date --sort name_asc

  # Serve the table API on :8080
  wft serve --addr :8080`
	bindViper(cmd, tableCmd, serveCmd, importCmd, snapshotCmd)
	return cmd
}

// bindViper overlays WFT_* environment variables and an optional config file
// onto any flag the user did not set explicitly.
func bindViper(commands ...*cobra.Command) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("WFT")
	v.AutomaticEnv()
	configFile := os.Getenv("WFT_CONFIG")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
			if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		if configFile != "" {
			if err := v.ReadInConfig(); err != nil {
				cobra.CheckErr(err)
			}
		}
		for _, cmd := range commands {
			for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Changed {
						return
					}
					if !v.IsSet(f.Name) {
						return
					}
					val := fmt.Sprintf("%v", v.Get(f.Name))
					if val != "" {
						_ = f.Value.Set(val)
					}
				})
			}
		}
	})
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	if errors.Is(err, os.ErrNotExist) {
		message = fmt.Sprintf("%s\nHint: run 'wft import <catalog.yaml>' to create the local catalog first.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

func defaultCatalogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "wft", "catalog.db")
}
