package cmd

import (
	"os"

	"envrepo/internal/config"
	"envrepo/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates the configuration could not be loaded.
	ExitCodeConfigError = 2
)

var (
	// configPath specifies a custom configuration directory path.
	configPath string

	// logLevel overrides the configured log level when set.
	logLevel string
)

// rootCmd represents the base command for the envrepo application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "envrepo",
	Short: "Keep a live, reconciled list of remote development environments",
	Long: `envrepo polls a source of remote environment descriptors and keeps
a cache of environment objects in sync with it. Environments keep their
identity across refreshes, so anything watching one keeps receiving updates
until the environment disappears from the source.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "envrepo version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if config.IsConfigurationError(err) {
		return ExitCodeConfigError
	}
	return ExitCodeError
}

// loadConfig reads the configuration selected by the persistent flags and
// initializes logging from it.
func loadConfig() (config.EnvrepoConfig, error) {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}

	// Log the load itself at the flag level, or info until the file is read.
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return config.EnvrepoConfig{}, err
	}
	logging.InitForCLI(level, os.Stderr)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.EnvrepoConfig{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	level, err = logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return config.EnvrepoConfig{}, err
	}
	logging.Init(logging.Format(cfg.Logging.Format), level, os.Stderr)

	return cfg, nil
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/envrepo)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}
