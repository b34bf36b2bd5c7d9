// Command rxctl runs the prescription matcher and catalog checks offline,
// without starting the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; flags and the environment still apply
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rxctl",
		Short:         "Offline tools for the symptom protocol catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("catalog", os.Getenv("PROTOCOLS_FILE"),
		"Path to a catalog JSON file (defaults to the embedded catalog)")

	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(catalogCmd())

	return rootCmd
}
