package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/skin-studio/internal/seed"
	"github.com/battlewithbytes/skin-studio/internal/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skin-studio %s\n", version.Version)
		fmt.Printf("  commit:  %s\n", version.Commit)
		fmt.Printf("  built:   %s\n", version.Date)
		fmt.Printf("  presets: %s\n", seed.BundleVersion)
	},
}
