// Copyright 2024 The slp-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command slpsa runs the SLP service agent daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pelletier/go-toml/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/slp-go/slp/agent"
	"github.com/slp-go/slp/agent/config"
	"github.com/slp-go/slp/pkg/log"
	"github.com/slp-go/slp/pkg/private/serrors"
	privcfg "github.com/slp-go/slp/private/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "slpsa",
		Short:         "SLP service agent daemon",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "TOML config file (required)")
	cmd.MarkFlagRequired("config")
	cmd.AddCommand(newSampleConfigCmd(), newVersionCmd())
	return cmd
}

func newSampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-config",
		Short: "Print a config file with all defaults filled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{
				Agent: config.Agent{Address: "192.0.2.1"},
			}
			cfg.InitDefaults()
			raw, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daemon version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "slpsa", version)
		},
	}
}

func run(ctx context.Context, configFile string) error {
	var cfg config.Config
	if err := privcfg.LoadFile(configFile, &cfg); err != nil {
		return err
	}
	if err := log.Setup(cfg.Logging); err != nil {
		return serrors.Wrap("setting up logging", err)
	}
	defer log.Flush()
	defer log.HandlePanic()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := agent.Listen(cfg.Agent.Port)
	if err != nil {
		return err
	}
	server, err := agent.NewServer(conn, cfg.Agent.Options())
	if err != nil {
		conn.Close()
		return err
	}
	server.Init()

	g, errCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer log.HandlePanic()
		return server.Serve()
	})
	if cfg.Metrics.Prometheus != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{
			Addr:    cfg.Metrics.Prometheus,
			Handler: mux,
		}
		g.Go(func() error {
			defer log.HandlePanic()
			log.Info("Exposing metrics", "addr", cfg.Metrics.Prometheus)
			err := metricsServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving metrics", err)
			}
			return nil
		})
		g.Go(func() error {
			defer log.HandlePanic()
			<-errCtx.Done()
			return metricsServer.Close()
		})
	}
	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		return server.Close()
	})
	return g.Wait()
}
