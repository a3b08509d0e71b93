package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/formulacalc/internal/viewmodel"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

const defaultWatchInterval = time.Second

func newWatchCmd(cfg *settings) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch <sheet-id>",
		Short: "Print a sheet and then every change to its items until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval %s: %w", interval, errUsage)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(a *app) error {
				return watchSheet(ctx, a, args[0], interval)
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "how often to look for changes")
	return cmd
}

// watchSheet prints the sheet, then one line per inserted, deleted, or
// modified item. Commits from other processes are picked up by refreshing
// the backend every interval.
func watchSheet(ctx context.Context, a *app, sheetID string, interval time.Duration) error {
	sheet := a.factory.SheetStore(sheetID)
	defer sheet.Close()
	if sheet.Current() == nil {
		return fmt.Errorf("sheet %s: %w", sheetID, types.ErrSheetNotFound)
	}

	vm := viewmodel.NewSheetViewModel(sheet, a.loc)
	printSheet(a, sheetView{Title: current(vm.Title()), Items: current(vm.ItemList())})

	titleSeen := false
	titles := vm.Title().Subscribe(func(title string) {
		if titleSeen {
			fmt.Fprintf(a.out, "= %s\n", title)
		}
		titleSeen = true
	})
	defer titles.Dispose()

	var prev []types.SheetItem
	replayed := false
	changes := sheet.ItemListUpdates().Subscribe(func(c types.ItemListChange) {
		if replayed {
			printItemChange(a, prev, c)
		}
		replayed = true
		prev = c.List
	})
	defer changes.Dispose()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.backend.Refresh()
			if sheet.Current() == nil {
				fmt.Fprintln(a.out, "sheet deleted")
				return nil
			}
		}
	}
}

func printItemChange(a *app, prev []types.SheetItem, c types.ItemListChange) {
	for _, i := range c.Deletions {
		fmt.Fprintf(a.out, "- %s\n", prev[i].Name)
	}
	for _, i := range c.Insertions {
		it := c.List[i]
		fmt.Fprintf(a.out, "+ %s\t%s\n", it.Name, a.loc.Value(it))
	}
	for _, i := range c.Modifications {
		it := c.List[i]
		fmt.Fprintf(a.out, "~ %s\t%s\n", it.Name, a.loc.Value(it))
	}
}
