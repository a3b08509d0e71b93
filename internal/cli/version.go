package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the formulacalc release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/formulacalc"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the formulacalc version",
		Args:  cobra.NoArgs,
		// The version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "formulacalc v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
