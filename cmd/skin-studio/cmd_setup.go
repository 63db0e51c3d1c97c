package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

const (
	modeStable = "stable"
	modeLazer  = "lazer"
)

type setupAnswers struct {
	Mode          string
	InstallFolder string
	Skin          string
	LazerPath     string
	Use2x         bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose the osu! folder and skin to work on",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		cfg := a.Config.Load()
		ans := setupAnswers{
			Mode:          modeStable,
			InstallFolder: cfg.InstallFolder,
			Skin:          cfg.ActiveSkin,
			LazerPath:     cfg.LazerSkinPath,
			Use2x:         cfg.Preferences.Use2x,
		}
		if cfg.LazerMode {
			ans.Mode = modeLazer
		}

		if err := setupForm(&ans).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println(ui.Dim.Render("Setup canceled, nothing changed."))
				return nil
			}
			return err
		}
		return saveSetup(a, ans)
	}),
}

func setupForm(ans *setupAnswers) *huh.Form {
	lazer := func() bool { return ans.Mode == modeLazer }
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Skin Studio").
				Description("Pick the skin you want to customise. Every change is written straight into that skin's folder."),
			huh.NewSelect[string]().
				Title("Game version").
				Options(
					huh.NewOption("osu! stable (Skins folder)", modeStable),
					huh.NewOption("osu! lazer (exported skin folder)", modeLazer),
				).
				Value(&ans.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("osu! install folder").
				Description("The folder that contains osu!.exe and Skins/.").
				Value(&ans.InstallFolder).
				Validate(validateInstallFolder),
		).WithHideFunc(lazer),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Skin").
				OptionsFunc(func() []huh.Option[string] {
					names, _ := skin.List(strings.TrimSpace(ans.InstallFolder))
					return huh.NewOptions(names...)
				}, &ans.InstallFolder).
				Value(&ans.Skin).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("no skins found in that folder")
					}
					return nil
				}),
		).WithHideFunc(lazer),
		huh.NewGroup(
			huh.NewInput().
				Title("Skin folder").
				Description("The folder of the skin to edit.").
				Value(&ans.LazerPath).
				Validate(validateDir),
		).WithHideFunc(func() bool { return !lazer() }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write @2x (HD) images too?").
				Value(&ans.Use2x),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

func validateDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("folder cannot be empty")
	}
	if info, err := os.Stat(s); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a folder", s)
	}
	return nil
}

func validateInstallFolder(s string) error {
	if err := validateDir(s); err != nil {
		return err
	}
	if err := validateDir(filepath.Join(strings.TrimSpace(s), config.SkinsDir)); err != nil {
		return fmt.Errorf("no %s folder in %s", config.SkinsDir, s)
	}
	return nil
}

func saveSetup(a *app.App, ans setupAnswers) error {
	lazer := ans.Mode == modeLazer
	if _, err := a.Config.SetLazerMode(lazer); err != nil {
		return err
	}
	if lazer {
		if _, err := a.Config.SetLazerSkinPath(strings.TrimSpace(ans.LazerPath)); err != nil {
			return err
		}
	} else {
		if _, err := a.Config.SetInstallFolder(strings.TrimSpace(ans.InstallFolder)); err != nil {
			return err
		}
		if _, err := a.Config.SetActiveSkin(ans.Skin); err != nil {
			return err
		}
	}
	if _, err := a.Config.SetUse2x(ans.Use2x); err != nil {
		return err
	}

	path, err := a.SkinPath()
	if err != nil {
		return err
	}
	ui.Success(os.Stdout, "Ready to edit %s", ui.White.Render(path))
	return nil
}

// confirm asks a yes/no question. An aborted prompt counts as no.
func confirm(question string) bool {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return err == nil && ok
}
