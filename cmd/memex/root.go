package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "memex",
	Short: "Local-first bookmark and note manager with an assistant",
	Long: `memex keeps your bookmarks, notes and spaces in a local store,
enriches captured links in the background, and lets you talk to an
assistant that can search and inspect your library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		initLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, then ~/.config/memex/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(spacesCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	setDefaults()

	viper.SetEnvPrefix("MEMEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "memex"))
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")

	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.dir", defaultDataDir())
	viper.SetDefault("db.dsn", filepath.Join(defaultDataDir(), "memex.db"))
	viper.SetDefault("db.sqlite.wal", true)
	viper.SetDefault("db.sqlite.busy_timeout_ms", 5000)
	viper.SetDefault("db.sqlite.foreign_keys", true)
	viper.SetDefault("db.pool.max_open_conns", 1)
	viper.SetDefault("db.pool.max_idle_conns", 1)

	viper.SetDefault("backend.endpoint", "")
	viper.SetDefault("backend.user_id", "local")
	viper.SetDefault("backend.retry.attempts", 3)
	viper.SetDefault("backend.retry.base_delay", "500ms")

	viper.SetDefault("capture.workers", 2)
	viper.SetDefault("capture.max_queue", 100)
	viper.SetDefault("capture.attempts", 1)

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.endpoint", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("assistant.max_rounds", 5)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memex"
	}
	return filepath.Join(home, ".local", "share", "memex")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(strings.TrimSpace(viper.GetString("log.level"))) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
