package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/imaging"
	"github.com/battlewithbytes/skin-studio/internal/library"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var (
	presetName   string
	presetMiddle bool
	presetUse2x  bool
)

func init() {
	presetsAddCmd.Flags().StringVar(&presetName, "name", "", "base name for the stored preset (default: file name)")
	presetsSaveCmd.Flags().StringVar(&presetName, "name", "", "base name for the stored preset")
	presetsApplyCmd.Flags().BoolVar(&presetMiddle, "middle", false, "apply a cursor trail as cursormiddle.png")
	for _, c := range []*cobra.Command{presetsApplyCmd, presetsPairCmd} {
		c.Flags().BoolVar(&presetUse2x, "2x", false, "write @2x files (default: config preference)")
	}
	presetsCmd.AddCommand(presetsListCmd, presetsAddCmd, presetsDeleteCmd, presetsApplyCmd, presetsPairCmd, presetsSaveCmd)
	rootCmd.AddCommand(presetsCmd)
}

// use2xOverride returns the --2x flag when it was given.
func use2xOverride(cmd *cobra.Command, v bool) *bool {
	if !cmd.Flags().Changed("2x") {
		return nil
	}
	return &v
}

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"images"},
	Short:   "Manage cursor, cursor trail and hit circle presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List image presets",
	Long:  "List image presets. Categories: cursor, cursor-trail, circle, circle-overlay.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		cats := library.Categories
		if len(args) == 1 {
			c, err := library.ParseCategory(args[0])
			if err != nil {
				return err
			}
			cats = []library.Category{c}
		}

		var rows [][]string
		for _, c := range cats {
			presets, err := a.Images.List(c)
			if err != nil {
				return err
			}
			for _, p := range presets {
				rows = append(rows, presetRow(p))
			}
		}
		if len(rows) == 0 {
			fmt.Println(ui.Dim.Render("No presets."))
			return nil
		}
		ui.Table(os.Stdout, []string{"ID", "CATEGORY", "SIZE", "DIMENSIONS", "@2X"}, rows)
		return nil
	}),
}

func presetRow(p library.Preset) []string {
	dims := "?"
	if buf, err := os.ReadFile(p.Path); err == nil {
		if w, h, err := imaging.Size(buf); err == nil {
			dims = fmt.Sprintf("%d×%d", w, h)
		}
	}
	hd := ""
	if p.Has2x {
		hd = ui.Green.Render("yes")
	}
	return []string{p.ID, string(p.Category), humanize.Bytes(uint64(p.Size)), dims, hd}
}

var presetsAddCmd = &cobra.Command{
	Use:   "add <category> <file.png>",
	Short: "Import a PNG into the library",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		c, err := library.ParseCategory(args[0])
		if err != nil {
			return err
		}
		buf, err := os.ReadFile(args[1])
		if err != nil {
			return apperr.IO("reading "+args[1], err)
		}
		name := presetName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
		}
		id, err := a.Images.Add(c, buf, name)
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Added %s to %s", ui.White.Render(id), c)
		return nil
	}),
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an image preset",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if !a.Images.Delete(args[0]) {
			ui.Warn(os.Stdout, "No preset %s", args[0])
			return nil
		}
		ui.Success(os.Stdout, "Deleted %s", args[0])
		return nil
	}),
}

var presetsApplyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Write an image preset into the active skin",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		use2x := a.Use2x(use2xOverride(cmd, presetUse2x))
		var err error
		if presetMiddle {
			err = a.Applier.ApplyCursorTrail(args[0], true, use2x)
		} else {
			err = a.Applier.ApplyImage(args[0], use2x)
		}
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Applied %s", ui.White.Render(args[0]))
		return nil
	}),
}

var presetsPairCmd = &cobra.Command{
	Use:   "pair <circle-id> <overlay-id>",
	Short: "Apply a hit circle and its overlay together",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		if err := a.Applier.ApplyCirclePair(args[0], args[1], a.Use2x(use2xOverride(cmd, presetUse2x))); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Applied %s with %s", ui.White.Render(args[0]), ui.White.Render(args[1]))
		return nil
	}),
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <category>",
	Short: "Copy the active skin's current image into the library",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		c, err := library.ParseCategory(args[0])
		if err != nil {
			return err
		}
		skinPath, err := a.SkinPath()
		if err != nil {
			return err
		}
		id, err := a.Images.SaveFromSkin(c, skinPath, presetName)
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Saved %s as %s", c.SkinFile(), ui.White.Render(id))
		return nil
	}),
}
