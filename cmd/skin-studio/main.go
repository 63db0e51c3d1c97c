package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/logging"
	"github.com/battlewithbytes/skin-studio/internal/ui"
	"github.com/battlewithbytes/skin-studio/internal/version"
)

var (
	flagHome     string
	flagLogLevel string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "skin-studio",
	Short:         "Customise osu! skins from a preset library",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Green.Render("Skin Studio") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Swap cursors, hit circles, digits and hitsounds in your osu! skin and edit its skin.ini.")
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "data directory (overrides "+config.HomeEnv+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "also log to the terminal")
}

// skipSeedAnnotation on a command stops withApp from seeding first.
const skipSeedAnnotation = "skip-seed"

// openApp resolves the data directory, builds the logger and the app, and
// seeds the library unless told not to.
func openApp(quiet, seedLibrary bool) (*app.App, error) {
	if flagHome != "" {
		os.Setenv(config.HomeEnv, flagHome)
	}
	p, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Options{
		FilePath: p.LogFile,
		Level:    flagLogLevel,
		Quiet:    quiet && !flagVerbose,
	})
	a := app.New(app.Options{Paths: p, Version: version.Version, Log: log})
	if seedLibrary {
		a.EnsureSeeded()
	}
	return a, nil
}

// withApp wraps a command body with app setup and teardown.
func withApp(fn func(a *app.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true, cmd.Annotations[skipSeedAnnotation] == "")
		if err != nil {
			return err
		}
		defer func() {
			a.Log.Sync()
			a.Close()
		}()
		if err := fn(a, cmd, args); err != nil {
			a.Log.Debug("command failed", zap.String("cmd", cmd.CommandPath()), zap.Error(err))
			return err
		}
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		msg := err.Error()
		if kind := apperr.KindOf(err); kind != apperr.KindIOFailure {
			msg += ui.Dim.Render(" (" + kind.String() + ")")
		}
		fmt.Fprintln(os.Stderr, ui.Red.Render("error:")+" "+msg)
		os.Exit(1)
	}
}
