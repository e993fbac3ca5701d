// Package main provides the inquire CLI, the command-line front end of the
// archive inquiry engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nadc-tools/inquire/internal/catalog"
)

const version = "5.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "inquire",
	Short:   "Query the satellite product archive databases",
	Version: version,
	Long: `Inquire composes and runs selections against the satellite product
archive databases. Each instrument is served by its own subcommand; the
selection flags are shared between them.`,
}

func init() {
	rootCmd.AddCommand(newInstrumentCmd("scia", "Query the SCIAMACHY archive", catalog.SCIAMACHY))
	rootCmd.AddCommand(newInstrumentCmd("gome", "Query the GOME archive", catalog.GOME))
}
