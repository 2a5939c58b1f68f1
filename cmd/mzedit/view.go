package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/mzedit/internal/app"
	"github.com/dshills/mzedit/internal/renderer/backend"
)

var viewFlags struct {
	logFile string
	noCheck bool
	noWatch bool
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&viewFlags.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().BoolVar(&viewFlags.noCheck, "no-check", false, "do not run the compiler while editing")
	cmd.Flags().BoolVar(&viewFlags.noWatch, "no-watch", false, "do not reload the config file when it changes")
}

func runView(_ *cobra.Command, args []string) error {
	opts := app.Options{
		ConfigPath:  configPath,
		LogLevel:    logLevel,
		LogFile:     viewFlags.logFile,
		WatchConfig: !viewFlags.noWatch,
		NoCheck:     viewFlags.noCheck,
	}
	if len(args) > 0 {
		opts.Path = args[0]
	}

	application, err := app.New(opts)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	if err := application.SetBackend(term); err != nil {
		return err
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			application.Shutdown()
		}
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}
