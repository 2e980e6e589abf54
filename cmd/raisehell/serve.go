package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/raisehell/internal/logging"
	"github.com/xtding233/raisehell/internal/metrics"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/telemetry"
	"github.com/xtding233/raisehell/internal/transport/grpcapi"
	"github.com/xtding233/raisehell/internal/transport/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP and gRPC",
		Long: `Starts the JSON API (with /metrics) and the raisehell.v1.Calculator gRPC
service. Addresses, limits and telemetry come from RAISEHELL_* variables;
flags override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("http"); addr != "" {
				deps.cfg.HTTPAddr = addr
			}
			if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
				deps.cfg.GRPCAddr = addr
			}
			level, _ := logging.ParseLevel(deps.cfg.LogLevel)
			deps.logger = logging.NewJSON(os.Stderr, level)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, deps)
		},
	}
	cmd.Flags().String("http", "", "HTTP listen address (default $RAISEHELL_HTTP_ADDR)")
	cmd.Flags().String("grpc", "", "gRPC listen address (default $RAISEHELL_GRPC_ADDR)")
	return cmd
}

func serve(ctx context.Context, deps runtimeDeps) error {
	shutdownTracing, err := telemetry.Setup(ctx, "raisehell", deps.cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			deps.logger.Warn("tracer shutdown", "err", err)
		}
	}()

	var rec *metrics.Recorder
	if deps.cfg.MetricsEnabled {
		rec = metrics.New()
	}
	calc := deps.calculator(rec)

	api := &httpapi.Server{Calc: calc, Logger: deps.logger}
	if rec != nil {
		api.Metrics = rec.Handler()
	}
	httpServer := &http.Server{
		Addr:              deps.cfg.HTTPAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", deps.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", deps.cfg.GRPCAddr, err)
	}
	grpcServer := grpcapi.NewServer(calc, deps.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})
	g.Go(func() error {
		return grpcServer.Serve(ctx, grpcLis)
	})
	if deps.cfg.WatchPresets && deps.cfg.PresetDir != "" {
		g.Go(func() error {
			return preset.Watch(ctx, deps.loader, deps.logger)
		})
	}

	err = g.Wait()
	deps.logger.Info("server stopped")
	return err
}
