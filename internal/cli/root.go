// Package cli implements the formulacalc command-line interface. Commands
// drive the same stores and view models a graphical front end would use.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// userErrors are failures caused by the command's input rather than the
// environment.
var userErrors = []error{
	types.ErrSheetNotFound,
	types.ErrItemNotFound,
	types.ErrInvalidID,
	types.ErrInvalidName,
	types.ErrInvalidItemType,
	types.ErrIndexOutOfRange,
	types.ErrInvalidNumber,
	errUsage,
}

var errUsage = errors.New("invalid argument")

// NewRootCmd creates the top-level "formulacalc" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	cfg := &settings{}

	root := &cobra.Command{
		Use:   "formulacalc",
		Short: "Spreadsheet-style notes on the command line",
		Long: `formulacalc keeps named sheets of numeric, text, and formula items in a
local SQLite database.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadSettings(flags)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(cfg))
	root.AddCommand(newSheetCmd(cfg))
	root.AddCommand(newItemCmd(cfg))
	root.AddCommand(newWatchCmd(cfg))
	root.AddCommand(newExportCmd(cfg))
	root.AddCommand(newImportCmd(cfg))

	return root
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	if !isReported(err) {
		color.New(color.FgRed).Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// Main is the entry point used by cmd/formulacalc.
func Main() {
	os.Exit(Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// exitCode maps err to a process exit code. Errors already reported through
// the error store count as user errors.
func exitCode(err error) int {
	if isReported(err) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
