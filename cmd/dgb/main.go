package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zuo-Peng/daily-games-bot/internal/config"
	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

const (
	exitGeneric  = 1
	exitNotFound = 2
	exitParse    = 3
)

// exitError carries a process exit status up to main.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitGeneric
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "dgb",
		Short:         "Daily Games Bot - index, search and post daily games chat transcripts",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("DGB_LOG_LEVEL"), "Log level (debug/info/warn/error)")

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(threadCmd())
	rootCmd.AddCommand(botCmd())

	return rootCmd
}

// openIndex loads the config and opens the index it points at.
func openIndex() (*config.Config, *index.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return cfg, db, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}
