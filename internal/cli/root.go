// Package cli implements the aerovoice command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aerovoice",
	Short: "Aerovoice - aviation voice-transcript intelligence",
	Long: `Aerovoice turns aviation voice transcripts into structured market
intelligence.

It detects airlines and industry themes, maps their relationships,
extracts market signals and factual claims, and verifies those claims
against current news coverage.

Every stage degrades gracefully: without a language-model key the
pipeline falls back to keyword detection, and without a news key the
verification block is simply omitted.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Aerovoice.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("aerovoice v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.aerovoice/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.aerovoice")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match AEROVOICE_*
	viper.SetEnvPrefix("AEROVOICE")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig merges the config file and environment on top of the defaults
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			// Unset fields keep their defaults
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: invalid config file %s: %v\n", path, err)
			}
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if cfg.LLM.APIKey == "" {
		// Keyword-only mode
		cfg.LLM.Provider = ""
	}
	if key := os.Getenv("NEWSAPI_KEY"); key != "" {
		cfg.News.APIKey = key
	}

	return cfg
}

// newOracle builds the configured language-model oracle; nil when disabled
func newOracle(cfg *model.Config) (llm.Oracle, error) {
	oracle, err := llm.NewOracle(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure language model: %w", err)
	}
	if oracle == nil && verbose {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY not set, running keyword-only analysis")
	}
	return oracle, nil
}
