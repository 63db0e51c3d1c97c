package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/battlewithbytes/skin-studio/internal/app"
	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/skinini"
	"github.com/battlewithbytes/skin-studio/internal/ui"
)

var iniShowYAML bool

func init() {
	iniShowCmd.Flags().BoolVar(&iniShowYAML, "yaml", false, "print the parsed fields as YAML")
	iniCmd.AddCommand(iniShowCmd, iniGetCmd, iniSetCmd, iniKeysCmd)
	comboCmd.AddCommand(comboListCmd, comboSetCmd, comboAddCmd, comboRemoveCmd)
	iniCmd.AddCommand(comboCmd)
	rootCmd.AddCommand(iniCmd)
}

var iniCmd = &cobra.Command{
	Use:   "ini",
	Short: "Read and edit the active skin's skin.ini",
}

var iniShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print skin.ini as it would be written",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		s, err := a.Applier.ReadSkinIni()
		if err != nil {
			return err
		}
		if iniShowYAML {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(s)
		}
		fmt.Print(skinini.Generate(s))
		return nil
	}),
}

// splitKey accepts "Section.Key" or "Section Key".
func splitKey(args []string) (string, string, []string, error) {
	if sec, key, ok := strings.Cut(args[0], "."); ok {
		return sec, key, args[1:], nil
	}
	if len(args) < 2 {
		return "", "", nil, apperr.Invalid("expected Section.Key")
	}
	return args[0], args[1], args[2:], nil
}

var iniGetCmd = &cobra.Command{
	Use:   "get <Section.Key>",
	Short: "Print one field",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		sec, key, _, err := splitKey(args)
		if err != nil {
			return err
		}
		s, err := a.Applier.ReadSkinIni()
		if err != nil {
			return err
		}
		v, err := s.Get(sec, key)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}),
}

var iniSetCmd = &cobra.Command{
	Use:   "set <Section.Key> <value>",
	Short: "Change one field and rewrite skin.ini",
	Long:  "Change one field and rewrite skin.ini. Keys accept the game's spellings, e.g. General.CursorCentre or Colours.SliderBorder.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		sec, key, rest, err := splitKey(args)
		if err != nil {
			return err
		}
		if len(rest) != 1 {
			return apperr.Invalid("expected exactly one value")
		}
		s, err := a.Applier.ReadSkinIni()
		if err != nil {
			return err
		}
		if err := s.Set(sec, key, rest[0]); err != nil {
			return err
		}
		if err := a.Applier.WriteSkinIni(s); err != nil {
			return err
		}
		v, _ := s.Get(sec, key)
		ui.Success(os.Stdout, "%s.%s = %s", sec, key, v)
		return nil
	}),
}

var iniKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the fields skin.ini supports",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range skinini.Keys() {
			fmt.Println(k)
		}
	},
}

var comboCmd = &cobra.Command{
	Use:   "combo",
	Short: "Manage combo colours",
}

var comboListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the combo colours",
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		s, err := a.Applier.ReadSkinIni()
		if err != nil {
			return err
		}
		n := s.ComboCount()
		if n == 0 {
			fmt.Println(ui.Dim.Render("No combo colours set; the game defaults apply."))
			return nil
		}
		for i := 0; i < n; i++ {
			c := s.Colours.Combo[i]
			if c == "" {
				fmt.Printf("Combo%d  %s\n", i+1, ui.Dim.Render("(empty)"))
				continue
			}
			fmt.Printf("Combo%d  %s %s\n", i+1, ui.Swatch(c), c)
		}
		return nil
	}),
}

func parseSlot(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(s), "combo"))
	if err != nil {
		return 0, apperr.Invalid("invalid combo slot %q", s)
	}
	return n, nil
}

// editCombos loads skin.ini, applies fn and writes the result back.
func editCombos(a *app.App, fn func(s *skinini.Skin) error) error {
	s, err := a.Applier.ReadSkinIni()
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return a.Applier.WriteSkinIni(s)
}

var comboSetCmd = &cobra.Command{
	Use:   "set <n> <r,g,b>",
	Short: "Set combo colour n (1-8)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		n, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		if err := editCombos(a, func(s *skinini.Skin) error { return s.SetCombo(n, args[1]) }); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Combo%d set", n)
		return nil
	}),
}

var comboAddCmd = &cobra.Command{
	Use:   "add <r,g,b>",
	Short: "Append a combo colour",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		var n int
		err := editCombos(a, func(s *skinini.Skin) error {
			var err error
			n, err = s.AddCombo(args[0])
			return err
		})
		if err != nil {
			return err
		}
		ui.Success(os.Stdout, "Combo%d added", n)
		return nil
	}),
}

var comboRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove combo colour n and shift the rest down",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
		n, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		if err := editCombos(a, func(s *skinini.Skin) error { return s.RemoveCombo(n) }); err != nil {
			return err
		}
		ui.Success(os.Stdout, "Combo%d removed", n)
		return nil
	}),
}
