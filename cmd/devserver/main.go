package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/mydrive/internal/buildinfo"
	"github.com/dmitrijs2005/mydrive/internal/devserver"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var cfg = func() *devserver.Config {
	c := &devserver.Config{}
	c.LoadDefaults()
	return c
}()

var rootCmd = &cobra.Command{
	Use:   "devserver",
	Short: "In-memory MyDrive API for local development",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := devserver.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		return app.Run(context.Background())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		buildinfo.PrintBuildData(cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "address and port to listen on")
	serveCmd.Flags().StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "TOML file with users and groups to create at start")
	serveCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	serveCmd.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	rootCmd.AddCommand(serveCmd, versionCmd)
}
