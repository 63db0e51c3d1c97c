package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
	"github.com/battlewithbytes/skin-studio/internal/skin"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var configShowYAML bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "print the raw record as YAML")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetInstallCmd)
	configCmd.AddCommand(configSetSkinCmd)
	configCmd.AddCommand(configLazerCmd)
	configCmd.AddCommand(configSetLazerPathCmd)
	configCmd.AddCommand(configSet2xCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify the Skin Studio configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		cfg := a.Config.Load()
		if configShowYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		}
		printConfig(a, cfg)
		return nil
	}),
}

func printConfig(a *app.App, cfg config.Config) {
	mode := "stable"
	if cfg.LazerMode {
		mode = "lazer"
	}
	w := os.Stdout
	ui.KV(w, "Mode", mode)
	if cfg.LazerMode {
		ui.KV(w, "Skin folder", orUnset(cfg.LazerSkinPath))
	} else {
		ui.KV(w, "Install", orUnset(cfg.InstallFolder))
		ui.KV(w, "Skin", orUnset(cfg.ActiveSkin))
	}
	ui.KV(w, "Write @2x", ui.YesNo(cfg.Preferences.Use2x))
	ui.KV(w, "Ignore updates", ui.YesNo(cfg.UpdatePreferences.IgnoreUpdates))
	fmt.Fprintln(w)

	if path, err := skin.ResolveExisting(cfg); err != nil {
		ui.Warn(w, "%v", err)
	} else {
		ui.KV(w, "Resolved", path)
	}
	fmt.Fprintln(w, ui.Dim.Render("Config file: "+a.Config.Path()))
}

func orUnset(s string) string {
	if s == "" {
		return ui.Dim.Render("(not set)")
	}
	return s
}

// parseOnOff accepts the usual spellings of a boolean switch.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, apperr.Invalid("expected on or off, got %q", s)
}

var configSetInstallCmd = &cobra.Command{
	Use:   "set-install <folder>",
	Short: "Set the osu! install folder",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		folder, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := validateInstallFolder(folder); err != nil {
			return apperr.Invalid("%v", err)
		}
		if _, err := a.Config.SetInstallFolder(folder); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Install folder set to %s", folder)
		return nil
	}),
}

var configSetSkinCmd = &cobra.Command{
	Use:   "set-skin <name>",
	Short: "Choose the active skin by folder name",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		name := args[0]
		names, err := skin.List(a.Config.Load().InstallFolder)
		if err != nil {
			return err
		}
		if match, ok := findSkin(names, name); ok {
			name = match
		} else {
			return unknownSkinError(name, names)
		}
		if _, err := a.Config.SetActiveSkin(name); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Active skin set to %s", ui.White.Render(name))
		return nil
	}),
}

// findSkin matches name case-insensitively against the installed skins.
func findSkin(names []string, name string) (string, bool) {
	for _, n := range names {
		if n == name {
			return n, true
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func unknownSkinError(name string, names []string) error {
	msg := fmt.Sprintf("no skin named %q", name)
	if hints := skin.Suggest(name, names, 3); len(hints) > 0 {
		msg += "; did you mean " + strings.Join(hints, ", ") + "?"
	}
	return apperr.New(apperr.KindNotFound, "%s", msg)
}

var configLazerCmd = &cobra.Command{
	Use:   "lazer <on|off>",
	Short: "Switch between the stable Skins folder and a lazer skin folder",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		cfg, err := a.Config.SetLazerMode(on)
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Lazer mode %s", map[bool]string{true: "on", false: "off"}[on])
		if on && cfg.LazerSkinPath == "" {
			ui.Warn(os.Stdout, "Set the skin folder with: skin-studio config set-lazer-path <folder>")
		}
		return nil
	}),
}

var configSetLazerPathCmd = &cobra.Command{
	Use:   "set-lazer-path <folder>",
	Short: "Set the skin folder used in lazer mode",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		folder, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if err := validateDir(folder); err != nil {
			return apperr.Invalid("%v", err)
		}
		if _, err := a.Config.SetLazerSkinPath(folder); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Lazer skin folder set to %s", folder)
		return nil
	}),
}

var configSet2xCmd = &cobra.Command{
	Use:   "set-2x <on|off>",
	Short: "Choose whether @2x images are written by default",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		if _, err := a.Config.SetUse2x(on); err != nil {
			return err
		}
		ui.Success(os.Stdout, "@2x output %s", map[bool]string{true: "on", false: "off"}[on])
		return nil
	}),
}
