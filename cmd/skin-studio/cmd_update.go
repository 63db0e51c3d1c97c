package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/updater"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var (
	updateForce bool
	updateYes   bool
)

func init() {
	updateCheckCmd.Flags().BoolVar(&updateForce, "force", false, "check even when updates are ignored")
	updateInstallCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "install without asking")
	updateCmd.AddCommand(updateCheckCmd, updateIgnoreCmd, updateEnableCmd, updateInstallCmd)
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for and install new releases",
}

func printStatus(s updater.Status) {
	w := os.Stdout
	ui.KV(w, "Current", s.Current)
	if s.Ignored {
		ui.KV(w, "Latest", ui.Dim.Render("not checked (updates ignored)"))
		return
	}
	if s.Latest == "" {
		ui.KV(w, "Latest", ui.Dim.Render("unknown (check failed)"))
		return
	}
	ui.KV(w, "Latest", s.Latest)
	if !s.HasUpdate {
		fmt.Println("\nAlready up to date.")
		return
	}
	if s.AssetSize > 0 {
		ui.KV(w, "Download", humanize.Bytes(uint64(s.AssetSize)))
	}
	if s.URL != "" {
		ui.KV(w, "Release", s.URL)
	}
	if s.Notes != "" {
		fmt.Println()
		fmt.Println(ui.Dim.Render(s.Notes))
	}
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the release feed",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()
		var s updater.Status
		if updateForce {
			a.Updater.InvalidateCache()
			s = a.Updater.CheckNow(ctx)
		} else {
			s = a.Updater.CheckOnStartup(ctx)
		}
		printStatus(s)
		return nil
	}),
}

var updateIgnoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Stop reporting new releases",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Updater.IgnoreFuture(); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Update notifications off. Re-enable with: skin-studio update enable")
		return nil
	}),
}

var updateEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Report new releases again",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Updater.Reenable(); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Update notifications on")
		return nil
	}),
}

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download the latest release and restart into it",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		checkCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		s := a.Updater.CheckNow(checkCtx)
		cancel()
		printStatus(s)
		if !s.HasUpdate {
			return nil
		}
		if !updateYes && !confirm(fmt.Sprintf("Install %s now?", s.Latest)) {
			fmt.Println(ui.Dim.Render("Canceled."))
			return nil
		}

		fmt.Println()
		_, err := a.Updater.Download(ctx, func(p updater.Progress) {
			fmt.Printf("\r%s %5.1f%%  %s", ui.Cyan.Render("Downloading"), p.Percent, p.Text)
			if p.Done {
				fmt.Println()
			}
		})
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Downloaded %s, restarting", s.Latest)
		a.Log.Sync()
		return a.Updater.Install()
	}),
}
