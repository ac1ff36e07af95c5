package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the merged configuration as YAML: defaults, then the config
file, then MEMEX_* environment variables. Secrets are redacted.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings := viper.AllSettings()
	redact(settings)
	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

var secretKeys = map[string]bool{
	"api_key": true,
	"token":   true,
}

func redact(m map[string]any) {
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			redact(nested)
			continue
		}
		if secretKeys[k] {
			if s, ok := v.(string); ok && s != "" {
				m[k] = "********"
			}
		}
	}
}
