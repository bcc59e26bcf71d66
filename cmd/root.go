package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/config"
	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/metrics"
	"github.com/alantheprice/choices/pkg/utils"
)

var (
	cfgFile      string
	separator    string
	localeFlag   string
	verboseFlag  bool
	jsonLogsFlag bool

	// Set up by the persistent pre-run of every command.
	activeConfig    *config.Config
	metricsRegistry *prometheus.Registry
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "choices",
	Short: "Evaluate and inspect conditional choice lists",
	Long: `Choices loads lists of selectable items from JSON or YAML files. Each item
has a value, an optionally localized label and optional visibleIf / enableIf
conditions that are evaluated against a set of named values.

Available commands:
  eval       - Evaluate item conditions and print the result
  find       - Look up an item by value
  parse      - Split a "value|label" literal
  roundtrip  - Check that a file survives load and save unchanged
  check      - Round-trip every item file under a directory
  serve      - Serve items over HTTP with a live event stream
  pick       - Choose an item interactively in the terminal`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.choices/config.json, then $HOME/.choices/config.json)")
	rootCmd.PersistentFlags().StringVar(&separator, "separator", "", "item value separator used when parsing literals")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "locale used to resolve item labels")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "write debug records to the log")
	rootCmd.PersistentFlags().BoolVar(&jsonLogsFlag, "json-logs", false, "write the log as JSON lines")
}

// setup loads configuration, applies flag overrides and installs the pass
// observers used by every command.
func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		return err
	}

	if separator != "" {
		cfg.ItemValueSeparator = separator
	}
	if localeFlag != "" {
		cfg.DefaultLocale = localeFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}
	if jsonLogsFlag {
		cfg.JsonLogs = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Apply(); err != nil {
		return err
	}

	utils.SetLogFile(cfg.LogFile)
	logger := utils.GetLogger()
	logger.SetVerbose(cfg.Verbose)
	if cfg.JsonLogs {
		logger.SetJSON(true)
	}

	observers := itemvalue.MultiObserver{utils.PassLogger{Logger: logger}}
	metricsRegistry = nil
	if cfg.MetricsEnabled {
		metricsRegistry = prometheus.NewRegistry()
		observers = append(observers, metrics.NewObserver(metricsRegistry))
	}
	itemvalue.SetObserver(observers)

	activeConfig = cfg
	logger.Debugf("Running %s", cmd.CommandPath())
	return nil
}

// outputLocale is the locale labels are resolved in: the --locale flag, then
// the document locale, then the configured default.
func outputLocale(docLocale string) string {
	if localeFlag != "" {
		return localeFlag
	}
	if docLocale != "" {
		return docLocale
	}
	if activeConfig != nil {
		return activeConfig.DefaultLocale
	}
	return ""
}

func errorf(format string, args ...any) error {
	return utils.NewUserError(fmt.Sprintf(format, args...), nil)
}
