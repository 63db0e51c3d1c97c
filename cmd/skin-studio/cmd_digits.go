package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var (
	digitsUse2x   bool
	digitsRefresh bool
)

func init() {
	digitsApplyCmd.Flags().BoolVar(&digitsUse2x, "2x", false, "write @2x glyphs (default: config preference)")
	digitsCurrentCmd.Flags().BoolVar(&digitsRefresh, "refresh", false, "re-read the skin instead of the cache")
	digitsCmd.AddCommand(
		digitsListCmd, digitsShowCmd, digitsCreateCmd, digitsRenameCmd, digitsDeleteCmd,
		digitsSetCmd, digitsRemoveCmd, digitsApplyCmd, digitsCurrentCmd, digitsSaveCurrentCmd,
	)
	rootCmd.AddCommand(digitsCmd)
}

var digitsCmd = &cobra.Command{
	Use:   "digits",
	Short: "Manage hit circle number (default-0..9) presets",
}

// slotSummary renders which of the expected slots a preset fills.
func slotSummary(slots map[string]string, expected []string) string {
	var b strings.Builder
	for _, s := range expected {
		if _, ok := slots[s]; ok {
			b.WriteString(ui.Green.Render("■"))
		} else {
			b.WriteString(ui.Dim.Render("·"))
		}
	}
	return b.String()
}

var digitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List digit presets",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		presets, err := a.Digits.List()
		if err != nil {
			return err
		}
		if len(presets) == 0 {
			fmt.Println(ui.Dim.Render("No digit presets."))
			return nil
		}
		slots := library.DigitSlots()
		rows := make([][]string, 0, len(presets))
		for _, p := range presets {
			rows = append(rows, []string{
				p.Name,
				fmt.Sprintf("%d/%d", len(p.Slots), len(slots)),
				slotSummary(p.Slots, slots[:library.DigitCount]) + " " + slotSummary(p.Slots, slots[library.DigitCount:]),
			})
		}
		ui.Table(os.Stdout, []string{"NAME", "GLYPHS", "0-9 / @2X"}, rows)
		return nil
	}),
}

func printSlots(slots map[string]string, order []string) {
	for _, s := range order {
		if path, ok := slots[s]; ok {
			fmt.Printf("  %-16s %s\n", s, ui.Dim.Render(path))
		} else {
			fmt.Printf("  %-16s %s\n", s, ui.Dim.Render("(empty)"))
		}
	}
}

var digitsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a digit preset's glyphs",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		p, err := a.Digits.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.Cyan.Render(p.Name))
		printSlots(p.Slots, library.DigitSlots())
		return nil
	}),
}

var digitsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty digit preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Digits.Create(args[0]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Created %s", args[0])
		return nil
	}),
}

var digitsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a digit preset",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Digits.Rename(args[0], args[1]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Renamed %s to %s", args[0], args[1])
		return nil
	}),
}

var digitsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a digit preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Digits.Delete(args[0]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Deleted %s", args[0])
		return nil
	}),
}

var digitsSetCmd = &cobra.Command{
	Use:   "set <name> <slot> <file.png>",
	Short: "Fill a glyph slot (0-9, or 3@2x for HD)",
	Args:  cobra.ExactArgs(3),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[2])
		if err != nil {
			return apperr.IO("reading "+args[2], err)
		}
		if err := a.Digits.SetDigit(args[0], args[1], buf); err != nil {
			return err
		}
		slot, _ := library.ParseDigitSlot(args[1])
		ui.Success(os.Stdout, "Set %s in %s", slot, args[0])
		return nil
	}),
}

var digitsRemoveCmd = &cobra.Command{
	Use:   "remove <name> <slot>",
	Short: "Empty a glyph slot",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Digits.RemoveDigit(args[0], args[1]); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Removed %s from %s", args[1], args[0])
		return nil
	}),
}

var digitsApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Write a digit preset into the active skin",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Applier.ApplyDigits(args[0], a.Use2x(use2xOverride(cmd, digitsUse2x))); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Applied digits %s", ui.White.Render(args[0]))
		return nil
	}),
}

var digitsCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the digit glyphs in the active skin",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		skinPath, err := a.SkinPath()
		if err != nil {
			return err
		}
		if digitsRefresh {
			if err := a.Digits.Cache().Refresh(skinPath); err != nil {
				return err
			}
		}
		p, err := a.Digits.ReadCurrent(skinPath)
		if err != nil {
			return err
		}
		fmt.Println(ui.Cyan.Render(p.Name) + ui.Dim.Render(" ("+skinPath+")"))
		printSlots(p.Slots, library.DigitSlots())
		return nil
	}),
}

var digitsSaveCurrentCmd = &cobra.Command{
	Use:   "save-current <name>",
	Short: "Save the active skin's digits as a new preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		skinPath, err := a.SkinPath()
		if err != nil {
			return err
		}
		if err := a.Digits.SaveCurrent(args[0], skinPath); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Saved the current digits as %s", args[0])
		return nil
	}),
}
