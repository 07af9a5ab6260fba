package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todoshare",
	Short: "Shared todo lists between friends",
	Long: `todoshare serves the todo and friendship API.

Configuration is read from defaults, a .env file, an optional --config file
(.toml or .yaml) and environment variables, in that order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a .toml or .yaml config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
