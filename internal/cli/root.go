package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veracitylab/veracity/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "veracity",
	Short: "Veracity - semantic retrieval and response verification",
	Long: `Veracity retrieves semantically relevant evidence for generated text
and decides whether that text is adequately supported.

It extracts checkable facts (percentages, dates, currency amounts,
URLs, versions) and uncertainty signals from a response, verifies each
fact against reachable URLs or supplied context, and produces a
verdict: verified or not, with a confidence score and citations.

Veracity is a best-effort heuristic decision layer, not a ground-truth
oracle: unsupported claims are flagged, never silently trusted.`,
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
	Long:  `Display the version number and build information for Veracity.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("veracity v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.veracity/config.yaml)")
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
		viper.AddConfigPath(home + "/.veracity")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match VERACITY_*
	viper.SetEnvPrefix("VERACITY")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the runtime configuration: defaults overlaid with
// whatever the config file and VERACITY_* environment variables set.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if viper.IsSet("store.dsn") {
		cfg.Store.DSN = viper.GetString("store.dsn")
	}
	if viper.IsSet("store.embedding_dim") {
		cfg.Store.EmbeddingDim = viper.GetInt("store.embedding_dim")
	}
	if viper.IsSet("store.timeout") {
		cfg.Store.Timeout = viper.GetDuration("store.timeout")
	}
	if viper.IsSet("embedding.provider") {
		cfg.Embedding.Provider = viper.GetString("embedding.provider")
	}
	if viper.IsSet("embedding.model") {
		cfg.Embedding.Model = viper.GetString("embedding.model")
	}
	if viper.IsSet("embedding.base_url") {
		cfg.Embedding.BaseURL = viper.GetString("embedding.base_url")
	}
	if viper.IsSet("embedding.timeout") {
		cfg.Embedding.Timeout = viper.GetDuration("embedding.timeout")
	}
	if viper.IsSet("verify.cache_ttl") {
		cfg.Verify.CacheTTL = viper.GetDuration("verify.cache_ttl")
	}
	if viper.IsSet("verify.url_timeout") {
		cfg.Verify.URLTimeout = viper.GetDuration("verify.url_timeout")
	}
	if viper.IsSet("verify.allow_vacuous") {
		cfg.Verify.AllowVacuous = viper.GetBool("verify.allow_vacuous")
	}
	if viper.IsSet("verify.disclaimer") {
		cfg.Verify.Disclaimer = viper.GetString("verify.disclaimer")
	}
	if viper.IsSet("http.user_agent") {
		cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	}
	if viper.IsSet("http.respect_robots") {
		cfg.HTTP.RespectRobots = viper.GetBool("http.respect_robots")
	}
	if viper.IsSet("http.requests_per_host") {
		cfg.HTTP.RequestsPerHost = viper.GetFloat64("http.requests_per_host")
	}
	if viper.IsSet("http.burst") {
		cfg.HTTP.Burst = viper.GetInt("http.burst")
	}
	if viper.IsSet("concurrency.verify_workers") {
		cfg.Concurrency.VerifyWorkers = viper.GetInt("concurrency.verify_workers")
	}

	return cfg
}
