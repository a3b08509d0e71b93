package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formulacalc/internal/viewmodel"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func newSheetCmd(cfg *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "List, create, and edit sheets",
	}
	cmd.AddCommand(
		newSheetListCmd(cfg),
		newSheetCreateCmd(cfg),
		newSheetRenameCmd(cfg),
		newSheetDeleteCmd(cfg),
		newSheetShowCmd(cfg),
		newSheetDesignCmd(cfg),
	)
	return cmd
}

func newSheetListCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sheets sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				list := a.factory.SheetListStore()
				defer list.Close()

				rows := current(viewmodel.NewSheetListViewModel(list, a.loc).SheetList())
				if cfg.jsonMode {
					return a.printJSON(rows)
				}
				w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Title)
				}
				return w.Flush()
			})
		},
	}
}

func newSheetCreateCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name...]",
		Short: "Create a sheet and print its id",
		Long:  "Create a sheet. Without a name the sheet gets the default name.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				list := a.factory.SheetListStore()
				defer list.Close()

				ids, sub := inserted(list.Updates(), func(s types.Sheet) string { return s.ID })
				defer sub.Dispose()

				vm := viewmodel.NewSheetListViewModel(list, a.loc)
				vm.OnNew().Send(strings.Join(args, " "))
				for _, id := range *ids {
					if cfg.jsonMode {
						if err := a.printJSON(map[string]string{"id": id}); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintln(a.out, id)
				}
				return nil
			})
		},
	}
}

func newSheetRenameCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <sheet-id> <name...>",
		Short: "Rename a sheet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				sheet := a.factory.SheetStore(args[0])
				defer sheet.Close()

				vm := viewmodel.NewDesignSheetViewModel(sheet, a.loc)
				vm.OnUpdateName().Send(strings.Join(args[1:], " "))
				return nil
			})
		},
	}
}

func newSheetDeleteCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sheet-id>",
		Short: "Delete a sheet and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				list := a.factory.SheetListStore()
				defer list.Close()

				vm := viewmodel.NewSheetListViewModel(list, a.loc)
				vm.OnDelete().Send(viewmodel.SheetListElement{ID: args[0]})
				return nil
			})
		},
	}
}

// sheetView is the JSON shape of "sheet show".
type sheetView struct {
	Title string                   `json:"title"`
	Items []viewmodel.SheetElement `json:"items"`
}

func newSheetShowCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show <sheet-id>",
		Short: "Show the visible items of a sheet with their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				sheet := a.factory.SheetStore(args[0])
				defer sheet.Close()
				if sheet.Current() == nil {
					return fmt.Errorf("sheet %s: %w", args[0], types.ErrSheetNotFound)
				}

				vm := viewmodel.NewSheetViewModel(sheet, a.loc)
				view := sheetView{Title: current(vm.Title()), Items: current(vm.ItemList())}
				if cfg.jsonMode {
					return a.printJSON(view)
				}
				printSheet(a, view)
				return nil
			})
		},
	}
}

func printSheet(a *app, view sheetView) {
	fmt.Fprintln(a.out, view.Title)
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, e := range view.Items {
		fmt.Fprintf(w, "  %s\t%s\n", e.Name, e.Value)
	}
	w.Flush()
}

func newSheetDesignCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "design <sheet-id>",
		Short: "List every item of a sheet with its id and type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				sheet := a.factory.SheetStore(args[0])
				defer sheet.Close()
				if sheet.Current() == nil {
					return fmt.Errorf("sheet %s: %w", args[0], types.ErrSheetNotFound)
				}

				items := current(viewmodel.NewDesignSheetViewModel(sheet, a.loc).ItemList())
				if cfg.jsonMode {
					return a.printJSON(items)
				}
				w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				for _, e := range items {
					hidden := ""
					if e.Hidden {
						hidden = "hidden"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Type, hidden)
				}
				return w.Flush()
			})
		},
	}
}
