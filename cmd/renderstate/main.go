package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renderstate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌┐┌┌┬┐┌─┐┬─┐┌─┐┌┬┐┌─┐┌┬┐┌─┐
  ├┬┘├┤ │││ ││├┤ ├┬┘└─┐ │ ├─┤ │ ├┤
  ┴└─└─┘┘└┘─┴┘└─┘┴└─└─┘ ┴ ┴ ┴ ┴ └─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "renderstate",
		Short: "Inspect and demonstrate shared render state",
		Long: `renderstate works with the render-state store and adapters.

  • inspect  print a store snapshot file as a table or JSON
  • demo     run two adapters on one key and watch them converge
  • serve    start the devtools inspector over a store`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		inspectCmd(),
		demoCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
