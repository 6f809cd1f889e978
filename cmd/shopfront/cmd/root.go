// Package cmd provides the CLI commands for the Shopfront gateway.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopfront/shopfront/internal/config"
)

var cfgFile string
var stateFilePath string

var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "Shopfront - storefront client gateway",
	Long: `Shopfront is a local gateway for a commerce backend.

It keeps the shopping cart and login credential on the client machine,
exposes a browser-facing JSON API, and forwards catalog, checkout, and
admin operations to the remote backend.

Quick start:
  1. Create a config file: shopfront init
  2. Run: shopfront start

Configuration:
  Config is loaded from shopfront.yaml in the current directory,
  $HOME/.shopfront/, or /etc/shopfront/.

  Environment variables can override config values with the SHOPFRONT_ prefix.
  Example: SHOPFRONT_BACKEND_URL=http://localhost:5001/api

Commands:
  start       Start the gateway server
  init        Write a starter config file
  reset       Reset to clean state (remove cart and credential)
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./shopfront.yaml)")
	rootCmd.PersistentFlags().StringVar(&stateFilePath, "state", "", "path to client state file (default: ~/.shopfront/state.json)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
