package cmd

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"neon-cinema-cli/config"
	"neon-cinema-cli/history"
	"neon-cinema-cli/service"
	"neon-cinema-cli/tui"
)

var version = "dev"

var (
	flagConfig  string
	flagBackend string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:     "neoncinema",
	Short:   "Book cinema tickets from your terminal",
	Long:    "Browse movies, pick a showtime, choose seats and book tickets without leaving the terminal.",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		client := newClient(cfg)
		bookings, err := openHistory()
		if err != nil {
			// The app is still usable without a local history.
			logger.Warn("booking history unavailable", "err", err)
		}
		if bookings != nil {
			defer bookings.Close()
		}

		program := tea.NewProgram(tui.New(client, bookings, logger), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running interface: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagBackend != "" {
		cfg.BackendURL = flagBackend
	}
	return cfg, nil
}

func newClient(cfg config.Config) *service.Client {
	httpClient := &http.Client{Timeout: cfg.Timeout()}
	return service.NewClient(cfg.BackendURL, httpClient)
}

// newLogger writes to the configured log file when one is set, so log
// lines never tear the alternate screen. Without a log file, warnings
// still land on stderr once the program exits.
func newLogger(cfg config.Config) (*log.Logger, func(), error) {
	level := log.WarnLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	if cfg.LogFile == "" {
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{Level: level, ReportTimestamp: true})
	return logger, func() { f.Close() }, nil
}

func openHistory() (*history.Store, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}
