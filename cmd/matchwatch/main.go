// Command matchwatch watches the match feed and sends one Telegram alert per
// newly listed match of the watched team.
//
// Usage:
//
//	matchwatch                     run until SIGINT/SIGTERM
//	matchwatch --config cfg.yaml   same, with a config file
//	matchwatch once                one fetch/evaluate pass, print matches
//	matchwatch once --send         same, and send the alerts
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"matchwatch/internal/app"
	"matchwatch/internal/config"
	logx "matchwatch/pkg/logx"
)

func main() {
	config.LoadDotEnv()
	if err := rootCmd().Execute(); err != nil {
		var ce *config.ConfigError
		if errors.As(err, &ce) {
			fmt.Fprintln(logx.Stderr(), "config error:", err)
		} else {
			fmt.Fprintln(logx.Stderr(), "fatal:", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "matchwatch",
		Short:         "Alert a Telegram chat when the watched team gets a new match listed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runDaemon(cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("MATCHWATCH_CONFIG"), "path to a JSON or YAML config file")
	root.AddCommand(onceCmd(&cfgPath))
	return root
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger().Info("signal received")
	case <-a.Done():
		a.Logger().Error("task failed; stopping", logx.Err(a.Err()))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	err = a.Stop(stopCtx)
	if ctx.Err() != nil {
		// Signal-initiated shutdown is a clean exit.
		return nil
	}
	return err
}
