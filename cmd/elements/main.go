// Command elements is an interactive inspector for the livekeys value
// bridge. It builds guest handles from host literals, classifies them and
// shows every conversion the bridge offers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anoobzg/livekeys/elements"
	"github.com/anoobzg/livekeys/logging"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:     "elements",
		Short:   "Inspect values through the livekeys value bridge",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(newEngine(verbose))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")

	var expr string
	eval := &cobra.Command{
		Use:   "eval",
		Short: "Inspect a single literal and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if expr == "" && len(args) > 0 {
				expr = args[0]
			}
			if expr == "" {
				return fmt.Errorf("nothing to inspect: pass a literal or use --expr")
			}
			engine := newEngine(verbose)
			scope := engine.OpenScope()
			defer scope.Close()
			fmt.Print(inspect(engine, expr))
			return nil
		},
	}
	eval.Flags().StringVarP(&expr, "expr", "e", "", "literal to inspect")

	repl := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(newEngine(verbose))
		},
	}

	root.AddCommand(eval, repl)
	return root
}

func newEngine(verbose bool) *elements.Engine {
	if verbose {
		return elements.New(elements.WithLogger(logging.NewLogger(logging.LogLevelDebug, "text", os.Stderr)))
	}
	return elements.New()
}
