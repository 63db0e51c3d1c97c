package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

func init() {
	rootCmd.AddCommand(skinsCmd)
}

var skinsCmd = &cobra.Command{
	Use:   "skins",
	Short: "List the skins in the osu! Skins folder",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		cfg := a.Config.Load()
		names, err := skin.List(cfg.InstallFolder)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println(ui.Dim.Render("No skins found."))
			return nil
		}
		for _, n := range names {
			if n == cfg.ActiveSkin && !cfg.LazerMode {
				fmt.Println(ui.Green.Render("* " + n))
				continue
			}
			fmt.Println("  " + n)
		}
		fmt.Println(ui.Dim.Render(fmt.Sprintf("\n%d skins", len(names))))
		return nil
	}),
}
