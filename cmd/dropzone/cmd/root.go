package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
)

var (
	cfgFile  string
	envName  string
	envURL   string
	logLevel string
	noColor  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dropzone",
	Short: "Rocket drop-zone analysis CLI",
	Long: `Dropzone is the operator client for the rocket-stage re-entry and
drop-zone analysis service. It submits Monte Carlo dispersion runs,
tracks their progress, fetches trajectory previews and renders the
resulting ellipse, impact-point and OTU grid data. When the remote
service is unreachable, runs fall back to a locally synthesized demo
result set so the tool stays usable.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dropzone/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name to use")
	rootCmd.PersistentFlags().StringVar(&envURL, "url", "", "analysis service URL (overrides environment)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(exportCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	// Color is pointless when output is piped
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	logger.SetLevel(logger.ParseLevel(logLevel))
	logger.SetNoColor(noColor)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME/.dropzone")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DROPZONE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
