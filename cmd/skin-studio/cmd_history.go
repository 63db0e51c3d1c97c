package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/history"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var (
	historyLimit int
	historyClear bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete every record")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent apply operations",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if a.History == nil {
			return apperr.New(apperr.KindNotFound, "apply history is unavailable, see the log for details")
		}
		if historyClear {
			n, err := a.History.Clear()
			if err != nil {
				return apperr.IO("clearing history", err)
			}
			ui.Success(os.Stdout, "Deleted %d records", n)
			return nil
		}

		recs, err := a.History.Recent(historyLimit)
		if err != nil {
			return apperr.IO("reading history", err)
		}
		if len(recs) == 0 {
			fmt.Println(ui.Dim.Render("Nothing applied yet."))
			return nil
		}
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, historyRow(r))
		}
		ui.Table(os.Stdout, []string{"WHEN", "KIND", "PRESET", "TARGET", "RESULT"}, rows)
		return nil
	}),
}

func historyRow(r *history.Record) []string {
	result := ui.Green.Render("ok")
	if !r.Success {
		result = ui.Red.Render(r.Error)
	}
	return []string{ui.Dim.Render(humanize.Time(r.CreatedAt)), r.Kind, r.Preset, r.Target, result}
}
