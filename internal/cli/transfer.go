package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formulacalc/internal/export"
)

func newExportCmd(cfg *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every sheet to a file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "jsonl [file]",
		Short: "Write one JSON record per sheet; stdout without a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				if len(args) == 0 {
					return a.backend.Dump(a.out)
				}
				if err := a.backend.DumpFile(args[0]); err != nil {
					return fmt.Errorf("export %s: %w", args[0], err)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "xlsx <file>",
		Short: "Write an Excel workbook with one worksheet per sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				list := a.factory.SheetListStore()
				defer list.Close()

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("export %s: %w", args[0], err)
				}
				if err := export.WriteWorkbook(f, list.Current()); err != nil {
					f.Close()
					return fmt.Errorf("export %s: %w", args[0], err)
				}
				return f.Close()
			})
		},
	})
	return cmd
}

func newImportCmd(cfg *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Read sheets from a file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "jsonl <file>",
		Short: "Load sheets written by export jsonl, replacing sheets with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				n, err := a.backend.LoadFile(args[0])
				if err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				if cfg.jsonMode {
					return a.printJSON(map[string]int{"imported": n})
				}
				fmt.Fprintf(a.out, "Imported %d sheets\n", n)
				return nil
			})
		},
	})
	return cmd
}
