package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/factcheck/internal/fetch"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/ocr"
	"github.com/ppiankov/factcheck/internal/resolve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "factcheck v0.1.0"

var (
	cfgFile string
	verbose bool

	// Shared by check and batch; empty means read the environment
	openAIKey  string
	serpAPIKey string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factcheck",
	Short: "FactCheck - verify news claims against live search results",
	Long: `FactCheck verifies a short claim, a news link, or the text in a screenshot.

A language model reasons over live web search results and answers with a
conclusion (TRUE, FALSE or UNVERIFIED), the sources it compared, and a short
explanation.

Run "factcheck serve" for the web UI, or "factcheck check" from a terminal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".factcheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps FACTCHECK_SECTION_KEY variables onto section.key
func bindEnv() {
	viper.SetEnvPrefix("FACTCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// newLogger builds the production logger, at debug level when verbose
func newLogger() *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

// credentials returns the key flags, falling back to the environment
func credentials() model.Credentials {
	creds := model.Credentials{LLMKey: openAIKey, SearchKey: serpAPIKey}
	if creds.LLMKey == "" {
		creds.LLMKey = os.Getenv(model.EnvLLMKey)
	}
	if creds.SearchKey == "" {
		creds.SearchKey = os.Getenv(model.EnvSearchKey)
	}
	return creds
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&openAIKey, "openai-key", "", "OpenAI API key (default: $"+model.EnvLLMKey+")")
	cmd.Flags().StringVar(&serpAPIKey, "serpapi-key", "", "SerpAPI key (default: $"+model.EnvSearchKey+")")
}

// newResolver wires the resolver with link expansion when enabled
func newResolver(cfg *model.Config, logger *zap.Logger) *resolve.Resolver {
	opts := []resolve.Option{resolve.WithLogger(logger)}
	if cfg.Links.Expand {
		opts = append(opts, resolve.WithExpander(fetch.NewExpander(cfg.Links, cfg.HTTP, logger)))
	}
	return resolve.NewResolver(cfg, opts...)
}

// newExtractor returns an extractor even when no engine is installed; the
// failure then surfaces per request as ErrEngineUnavailable
func newExtractor(cfg *model.Config, logger *zap.Logger) *ocr.Extractor {
	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		logger.Warn("OCR engine unavailable", zap.String("engine", cfg.OCR.Engine), zap.Error(err))
		engine = ocr.UnavailableEngine(err)
	}
	return ocr.NewExtractor(engine, cfg.OCR, logger)
}
