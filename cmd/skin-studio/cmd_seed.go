package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/seed"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var seedStatusOnly bool

func init() {
	seedCmd.Flags().BoolVar(&seedStatusOnly, "status", false, "only report whether seeding is needed")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:         "seed",
	Annotations: map[string]string{skipSeedAnnotation: "true"},
	Short:       "Import the bundled presets into the library",
	Long: "Import the bundled presets into the library. Runs automatically on first use and " +
		"after an update ships new presets; existing presets are never overwritten.",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		m, ok := a.Seed.ReadMarker()
		ui.KV(os.Stdout, "Bundle", seed.BundleVersion)
		if ok {
			ui.KV(os.Stdout, "Seeded", fmt.Sprintf("%s (%d items)", m.Version, len(m.Seeded)))
		} else {
			ui.KV(os.Stdout, "Seeded", ui.Dim.Render("never"))
		}
		ui.KV(os.Stdout, "State", a.Seed.State().String())
		if seedStatusOnly {
			return nil
		}

		rep, err := a.Seed.Run()
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "%d images and %d preset files imported, %d already present",
			rep.Images, rep.Files, rep.Skipped)
		return nil
	}),
}
