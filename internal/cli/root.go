package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccarocean/copernicus-sync/internal/config"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/types"
	"github.com/ccarocean/copernicus-sync/internal/utils"
	"github.com/ccarocean/copernicus-sync/pkg/version"
)

var (
	globalFlags types.GlobalFlags
	appConfig   *config.Config
	logger      logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "copsync",
	Short: "Mirror Copernicus sea level data archives over FTP",
	Long: `copsync keeps a local mirror of a date-partitioned sea level data
archive. Each run lists the remote archive, compares it against the local
destination tree and fetches, updates or deletes files until the two match.

All commands support JSON output for automation and scripting.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error
		if globalFlags.Config != "" {
			cfg, err = config.LoadPath(globalFlags.Config)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		appConfig = cfg

		if !cmd.Flags().Changed("output") {
			globalFlags.OutputFormat = cfg.DefaultOutputFormat
		}
		if err := validateGlobalFlags(); err != nil {
			return err
		}

		logConfig := logging.LogConfig{
			Level:           logging.LevelForVerbosity(globalFlags.Verbose),
			OutputFile:      globalFlags.LogFile,
			EnableConsole:   !globalFlags.Quiet,
			RedactSensitive: true,
			EnableColor:     cfg.ColorOutput,
			EnableTimestamp: true,
		}
		if globalFlags.OutputFormat == types.OutputFormatJSON && globalFlags.Verbose == 0 {
			logConfig.EnableConsole = false
		}

		logger, err = logging.NewLogger(logConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar((*string)(&globalFlags.OutputFormat), "output", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().CountVarP(&globalFlags.Verbose, "verbose", "v", "Increase logging verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", "", "Path to configuration file")

	rootCmd.AddCommand(versionCmd)
}

func validateGlobalFlags() error {
	if globalFlags.OutputFormat != types.OutputFormatJSON && globalFlags.OutputFormat != types.OutputFormatTable {
		return fmt.Errorf("invalid output format: %s", globalFlags.OutputFormat)
	}
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			os.Exit(utils.GetExitCode(appErr.CLIError.Code))
		}
		os.Exit(utils.ExitUnknown)
	}
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() types.GlobalFlags {
	return globalFlags
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return appConfig
}

// GetLogger returns the global logger
func GetLogger() logging.Logger {
	return logger
}
