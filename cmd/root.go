// Package cmd contains the meta_debug_web commands.
package cmd

import (
	"time"

	"meta_debug_web/internal/application/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	appCfg  *config.AppConfig
	logger  *log.Logger
)

// rootCmd serves HTTP when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "meta_debug_web",
	Short: "Inspect the metadata a web page exposes to crawlers",
	Long: `meta_debug_web fetches a page and reports its title, Open Graph tags,
meta tags, candidate preview images, JSON-LD blocks and a text preview.

Example usage:
  meta_debug_web serve                         # HTML report on HTTP_SERVER_HOST
  meta_debug_web analyze https://example.com   # HTML report on stdout
  meta_debug_web analyze a.com b.com --json    # one JSON line per URL
  meta_debug_web cgi                           # answer one CGI request`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.env", "env file with application settings")
}

func initConfig() error {
	logger = log.New()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.WithError(err).Error(`Failed to load config`)
		return err
	}

	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Error(`Failed to parse log level`)
		return err
	}

	logger.SetFormatter(&log.JSONFormatter{
		TimestampFormat:   time.RFC3339,
		DisableHTMLEscape: true,
	})
	logger.SetLevel(logLevel)
	if cfg.DebugMode {
		logger.SetLevel(log.DebugLevel)
	}

	appCfg = cfg
	return nil
}
