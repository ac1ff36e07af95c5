package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memexlabs/memex/internal/clifmt"
	"github.com/memexlabs/memex/store"
)

var themeAccent string

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Show or set the UI theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func init() {
	themeCmd.Flags().StringVar(&themeAccent, "accent", "", "accent color (hex)")
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if len(args) == 0 && themeAccent == "" {
		theme := a.Store.Theme()
		fmt.Println(clifmt.Key("mode:"), string(theme.Mode))
		if theme.AccentColor != "" {
			fmt.Println(clifmt.Key("accent:"), theme.AccentColor)
		}
		return nil
	}

	theme := a.Store.Theme()
	if len(args) == 1 {
		switch store.ThemeMode(args[0]) {
		case store.ThemeLight, store.ThemeDark, store.ThemeSystem:
			theme.Mode = store.ThemeMode(args[0])
		default:
			return fmt.Errorf("unknown theme mode %q", args[0])
		}
	}
	if themeAccent != "" {
		theme.AccentColor = themeAccent
	}
	a.Store.SetTheme(theme)
	fmt.Println(clifmt.Success("theme updated"))
	return nil
}
