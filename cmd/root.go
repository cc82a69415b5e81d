package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dataomni/schemascore/schemascore"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "schemascore",
	Short: "Database schema quality scoring",
	Long: `schemascore rates how well a database schema documents itself:
meaningful field names, description and type coverage, key presence,
and near-duplicate field names within a table.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./schemascore.{json,yaml})")
}

// initConfig reads in a config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("schemascore")
	}

	viper.SetEnvPrefix("SCHEMASCORE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadEngineConfig merges the config file (if any) over the library defaults.
// When viper's search finds no file, the library's JSON loader takes over so
// a plain schemascore.json next to the binary (or named via --config) still
// works without viper key mapping.
func loadEngineConfig() (schemascore.Config, error) {
	if viper.ConfigFileUsed() == "" {
		return schemascore.LoadConfig(cfgFile)
	}
	var cfg schemascore.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
