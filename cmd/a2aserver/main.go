// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Command a2aserver runs the form agent: an A2A server exposing form
// navigation and submission skills backed by a SQLite store and an
// LLM-driven navigator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	a2a "github.com/formagent/a2a"
	"github.com/formagent/a2a/assistant"
	"github.com/formagent/a2a/forms"
	"github.com/formagent/a2a/internal/config"
	"github.com/formagent/a2a/internal/llmclient"
	"github.com/formagent/a2a/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:           "a2aserver",
		Short:         "A2A form agent server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	formStore, err := forms.Open(cfg.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("open form store: %w", err)
	}

	llm := llmclient.New(llmclient.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}, logger)
	navigator := assistant.NewNavigator(llm, logger)

	taskStore := server.NewTaskStore()
	metrics := server.NewMetrics(prometheus.DefaultRegisterer)
	dispatcher := server.NewDispatcher(taskStore, formStore, navigator, logger, metrics)

	srv := server.NewServer(cfg.Server.Addr, a2a.DefaultCard(""), taskStore, dispatcher).
		WithLogger(logger).
		WithMetrics(metrics)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
