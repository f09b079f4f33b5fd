// Package main provides the ats_agent CLI: resume scoring, keyword extraction,
// edit suggestions, and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/ats-matcher/internal/config"
	"github.com/jonathan/ats-matcher/internal/logger"
)

var (
	configFile string

	// v holds flag bindings; cfg and log are set before any command runs.
	v   = viper.New()
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ats_agent",
	Short: "ATS resume and job keyword matcher",
	Long: `ats_agent scores how well a resume matches a job posting, lists the
matched and missing keywords, and suggests edits to strengthen the resume.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")
	flags.Bool("log-json", false, "Emit JSON logs")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("remote", false, "Use the hosted keyword-extraction service")
	flags.Bool("semantic", false, "Supplement rule-based extraction with embedding similarity")
	flags.Bool("prefer-local", false, "Never call the hosted service")

	mustBind("log.json", flags.Lookup("log-json"))
	mustBind("log.debug", flags.Lookup("debug"))
	mustBind("remote.enabled", flags.Lookup("remote"))
	mustBind("semantic.enabled", flags.Lookup("semantic"))
	mustBind("extraction.prefer_local", flags.Lookup("prefer-local"))
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	l, err := logger.New(loaded.Log.JSON, loaded.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	cfg, log = loaded, l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
