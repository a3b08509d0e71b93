package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formulacalc/internal/store"
	"github.com/mesh-intelligence/formulacalc/internal/viewmodel"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func newItemCmd(cfg *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, remove, and edit the items of a sheet",
	}
	cmd.AddCommand(
		newItemAddCmd(cfg),
		newItemDeleteCmd(cfg),
		newItemSetCmd(cfg),
		newItemGetCmd(cfg),
	)
	return cmd
}

func newItemAddCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "add <sheet-id>",
		Short: "Append a numeric item to a sheet and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				sheet := a.factory.SheetStore(args[0])
				defer sheet.Close()

				ids, sub := inserted(sheet.ItemListUpdates(), func(it types.SheetItem) string { return it.ID })
				defer sub.Dispose()

				viewmodel.NewDesignSheetViewModel(sheet, a.loc).OnNewItem().Send(struct{}{})
				for _, id := range *ids {
					fmt.Fprintln(a.out, id)
				}
				return nil
			})
		},
	}
}

func newItemDeleteCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sheet-id> <item-id>",
		Short: "Remove an item from a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				sheet := a.factory.SheetStore(args[0])
				defer sheet.Close()

				vm := viewmodel.NewDesignSheetViewModel(sheet, a.loc)
				vm.OnDeleteItem().Send(viewmodel.DesignSheetElement{ID: args[1]})
				return nil
			})
		},
	}
}

// itemSetters maps the field names accepted by "item set" to the intent
// that stores a parsed value.
var itemSetters = map[string]func(a *app, it *store.ItemStore, value string) error{
	"name": func(a *app, it *store.ItemStore, v string) error {
		viewmodel.NewItemNameViewModel(it, a.errs).OnDone().Send(v)
		return nil
	},
	"type": func(a *app, it *store.ItemStore, v string) error {
		t, err := types.ParseItemType(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("type %q: %w", v, err)
		}
		viewmodel.NewItemTypeViewModel(it, a.loc).OnSelect().Send(viewmodel.ItemTypeChoice{Type: t})
		return nil
	},
	"number": func(a *app, it *store.ItemStore, v string) error {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("number %q: want a finite number: %w", v, errUsage)
		}
		viewmodel.NewItemValueViewModel(it, a.errs).OnNumber().Send(n)
		return nil
	},
	"string": func(a *app, it *store.ItemStore, v string) error {
		viewmodel.NewItemValueViewModel(it, a.errs).OnString().Send(v)
		return nil
	},
	"value": func(a *app, it *store.ItemStore, v string) error {
		viewmodel.NewItemValueViewModel(it, a.errs).OnDone().Send(v)
		return nil
	},
	"formula": func(a *app, it *store.ItemStore, v string) error {
		viewmodel.NewFormulaViewModel(it).OnDone().Send(v)
		return nil
	},
	"separator": func(a *app, it *store.ItemStore, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("separator %q: %w", v, errUsage)
		}
		viewmodel.NewItemFormatViewModel(it, a.loc).OnChangeThousandSeparator().Send(b)
		return nil
	},
	"digits": func(a *app, it *store.ItemStore, v string) error {
		d := types.FractionDigitsAuto
		if !strings.EqualFold(v, "auto") {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > types.FractionDigitsMax {
				return fmt.Errorf("digits %q: want auto or 0-%d: %w", v, types.FractionDigitsMax, errUsage)
			}
			d = n
		}
		viewmodel.NewItemFormatViewModel(it, a.loc).OnSelectFractionDigits().Send(viewmodel.FractionDigitsChoice{Digits: d})
		return nil
	},
	"visible": func(a *app, it *store.ItemStore, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("visible %q: %w", v, errUsage)
		}
		viewmodel.NewItemViewModel(it, a.loc).OnChangeVisible().Send(b)
		return nil
	},
}

func itemFields() string {
	names := make([]string, 0, len(itemSetters))
	for name := range itemSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func newItemSetCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "set <item-id> <field> <value...>",
		Short: "Change one property of an item",
		Long:  "Change one property of an item. Fields: " + itemFields() + ".",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := itemSetters[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("unknown field %q (valid: %s): %w", args[1], itemFields(), errUsage)
			}
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				it := a.factory.ItemStore(args[0])
				defer it.Close()
				return set(a, it, strings.Join(args[2:], " "))
			})
		},
	}
}

// itemView is the output of "item get".
type itemView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Formula string `json:"formula,omitempty"`
	Format  string `json:"format"`
	Visible bool   `json:"visible"`
}

func newItemGetCmd(cfg *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Show the properties of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				it := a.factory.ItemStore(args[0])
				defer it.Close()
				snapshot := it.Current()
				if snapshot == nil {
					return fmt.Errorf("item %s: %w", args[0], types.ErrItemNotFound)
				}

				vm := viewmodel.NewItemViewModel(it, a.loc)
				view := itemView{
					ID:      it.ID(),
					Name:    current(vm.Name()),
					Type:    current(vm.Type()),
					Value:   a.loc.Value(*snapshot),
					Formula: current(vm.Formula()),
					Format:  current(vm.Format()),
					Visible: current(vm.Visible()),
				}
				if cfg.jsonMode {
					return a.printJSON(view)
				}
				fmt.Fprintf(a.out, "ID:       %s\n", view.ID)
				fmt.Fprintf(a.out, "Name:     %s\n", view.Name)
				fmt.Fprintf(a.out, "Type:     %s\n", view.Type)
				fmt.Fprintf(a.out, "Value:    %s\n", view.Value)
				if view.Formula != "" {
					fmt.Fprintf(a.out, "Formula:  %s\n", view.Formula)
				}
				fmt.Fprintf(a.out, "Format:   %s\n", view.Format)
				fmt.Fprintf(a.out, "Visible:  %t\n", view.Visible)
				return nil
			})
		},
	}
}
