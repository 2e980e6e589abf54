package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xtding233/raisehell/internal/config"
	"github.com/xtding233/raisehell/internal/logging"
	"github.com/xtding233/raisehell/internal/metrics"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raisehell",
		Short: "Exact odds for Hellraiser cascades",
		Long: `raisehell computes how many extra Hellraisers a cascade is likely to
produce from a graveyard of Seasons, Beacons and Flameshapers, and the
simpler chance of hitting a marked card with repeated three-card exiles.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("presets", "", "Preset directory (default $RAISEHELL_PRESET_DIR)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default $RAISEHELL_LOG_LEVEL)")
	root.PersistentFlags().Bool("plain", false, "Disable terminal styling")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")

	root.AddCommand(
		newDistributionCmd(),
		newChanceCmd(),
		newSimulateCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

// runtimeDeps is what every command builds from env plus flags.
type runtimeDeps struct {
	cfg    config.Config
	logger *slog.Logger
	loader *preset.Loader
}

func loadDeps(cmd *cobra.Command) (runtimeDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return runtimeDeps{}, err
	}
	if dir, _ := cmd.Flags().GetString("presets"); dir != "" {
		cfg.PresetDir = dir
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return runtimeDeps{}, err
	}
	return runtimeDeps{
		cfg:    cfg,
		logger: logging.New(level),
		loader: preset.NewLoader(cfg.PresetDir),
	}, nil
}

func (d runtimeDeps) calculator(rec *metrics.Recorder) *service.Calculator {
	return service.New(
		service.WithPresets(d.loader),
		service.WithLimits(service.Limits{
			PoolSize:    d.cfg.Limits.PoolSize,
			SimPoolSize: d.cfg.Limits.SimPoolSize,
			Triggers:    d.cfg.Limits.Triggers,
			Trials:      d.cfg.Limits.Trials,
		}),
		service.WithWorkers(d.cfg.Parallelism),
		service.WithMetrics(rec),
		service.WithLogger(d.logger),
	)
}

// poolFlags registers the graveyard flags shared by distribution and
// cascade simulation.
func poolFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Deck preset to start from")
	cmd.Flags().Uint32P("triggers", "t", 1, "Hellraiser triggers pending at the start")
	cmd.Flags().Uint32P("pool", "g", 0, "Cards in the graveyard")
	cmd.Flags().Uint32P("seasons", "s", 0, "Seasons in the graveyard")
	cmd.Flags().Uint32P("beacons", "b", 0, "Beacons in the graveyard")
	cmd.Flags().Uint32P("flameshapers", "f", 0, "Flameshapers in the graveyard")
}

// poolRequest only forwards flags the user set, so preset values survive.
func poolRequest(cmd *cobra.Command) service.PoolRequest {
	req := service.PoolRequest{}
	req.Preset, _ = cmd.Flags().GetString("preset")
	req.Triggers = changedUint32(cmd, "triggers")
	req.PoolSize = changedUint32(cmd, "pool")
	req.Primary = changedUint32(cmd, "seasons")
	req.Toggle = changedUint32(cmd, "beacons")
	req.Secondary = changedUint32(cmd, "flameshapers")
	return req
}

func changedUint32(cmd *cobra.Command, name string) *uint32 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetUint32(name)
	return &v
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func renderer(cmd *cobra.Command) *report.Renderer {
	plain, _ := cmd.Flags().GetBool("plain")
	return report.NewRenderer(cmd.OutOrStdout(), plain)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
