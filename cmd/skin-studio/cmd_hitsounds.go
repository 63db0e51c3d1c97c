package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var hitsoundsRefresh bool

func init() {
	hitsoundsCurrentCmd.Flags().BoolVar(&hitsoundsRefresh, "refresh", false, "re-read the skin instead of the cache")
	hitsoundsCmd.AddCommand(
		hitsoundsListCmd, hitsoundsShowCmd, hitsoundsCreateCmd, hitsoundsRenameCmd, hitsoundsDeleteCmd,
		hitsoundsSetCmd, hitsoundsRemoveCmd, hitsoundsApplyCmd, hitsoundsCurrentCmd, hitsoundsSaveCurrentCmd,
	)
	rootCmd.AddCommand(hitsoundsCmd)
}

var hitsoundsCmd = &cobra.Command{
	Use:   "hitsounds",
	Short: "Manage hitsound presets",
}

var hitsoundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hitsound presets",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		presets, err := a.Hitsounds.List()
		if err != nil {
			return err
		}
		if len(presets) == 0 {
			fmt.Println(ui.Dim.Render("No hitsound presets."))
			return nil
		}
		slots := library.HitsoundSlots()
		rows := make([][]string, 0, len(presets))
		for _, p := range presets {
			rows = append(rows, []string{
				p.Name,
				fmt.Sprintf("%d/%d", len(p.Slots), len(slots)),
				slotSummary(p.Slots, slots),
			})
		}
		ui.Table(os.Stdout, []string{"NAME", "SOUNDS", "SLOTS"}, rows)
		return nil
	}),
}

var hitsoundsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a hitsound preset's samples",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		p, err := a.Hitsounds.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.Cyan.Render(p.Name))
		printSlots(p.Slots, library.HitsoundSlots())
		return nil
	}),
}

var hitsoundsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty hitsound preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Hitsounds.Create(args[0]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Created %s", args[0])
		return nil
	}),
}

var hitsoundsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a hitsound preset",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Hitsounds.Rename(args[0], args[1]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Renamed %s to %s", args[0], args[1])
		return nil
	}),
}

var hitsoundsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a hitsound preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Hitsounds.Delete(args[0]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Deleted %s", args[0])
		return nil
	}),
}

var hitsoundsSetCmd = &cobra.Command{
	Use:   "set <name> <type> <sound> <file>",
	Short: "Fill a sample slot, e.g. set Clicks soft hitclap clap.wav",
	Long: "Fill a sample slot from a .wav, .mp3 or .ogg file. Types are drum, normal and soft; " +
		"sounds are hitnormal, hitclap, hitwhistle, hitfinish, slidertick, sliderslide, sliderwhistle, and hitsoft for soft only.",
	Args: cobra.ExactArgs(4),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Hitsounds.SetSound(args[0], args[1], args[2], args[3]); err != nil {
			return err
		}
		slot, _ := library.SlotName(args[1], args[2])
		ui.Success(os.Stdout, "Set %s in %s", slot, args[0])
		return nil
	}),
}

var hitsoundsRemoveCmd = &cobra.Command{
	Use:   "remove <name> <type> <sound>",
	Short: "Empty a sample slot",
	Args:  cobra.ExactArgs(3),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Hitsounds.RemoveSound(args[0], args[1], args[2]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Removed %s-%s from %s", args[1], args[2], args[0])
		return nil
	}),
}

var hitsoundsApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Write a hitsound preset into the active skin",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Applier.ApplyHitsounds(args[0]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Applied hitsounds %s", ui.White.Render(args[0]))
		return nil
	}),
}

var hitsoundsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the hitsounds in the active skin",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		skinPath, err := a.SkinPath()
		if err != nil {
			return err
		}
		if hitsoundsRefresh {
			if err := a.Hitsounds.Cache().Refresh(skinPath); err != nil {
				return err
			}
		}
		p, err := a.Hitsounds.ReadCurrent(skinPath)
		if err != nil {
			return err
		}
		fmt.Println(ui.Cyan.Render(p.Name) + ui.Dim.Render(" ("+skinPath+")"))
		printSlots(p.Slots, library.HitsoundSlots())
		return nil
	}),
}

var hitsoundsSaveCurrentCmd = &cobra.Command{
	Use:   "save-current <name>",
	Short: "Save the active skin's hitsounds as a new preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		skinPath, err := a.SkinPath()
		if err != nil {
			return err
		}
		if err := a.Hitsounds.SaveCurrent(args[0], skinPath); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Saved the current hitsounds as %s", args[0])
		return nil
	}),
}
