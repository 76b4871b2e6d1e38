// Command server runs the Annual web service and inspects its page route table.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "annual",
		Short: "Annual report assistant web service",
		Long: `Annual serves the report assistant web application.

Pages are declared in an ordered route table, matched first-to-last,
and rendered from lazily loaded component templates. Unknown paths
fall through to a catch-all not-found page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		resolveCmd(),
		validateCmd(),
		versionCmd(),
	)

	return rootCmd
}
