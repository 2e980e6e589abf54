package main

import (
	"github.com/spf13/cobra"

	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/service"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Exile three random cards once and see whether one was marked",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			hits, _ := cmd.Flags().GetUint32("hits")
			pool, _ := cmd.Flags().GetUint32("pool")
			res, err := deps.calculator(nil).Simulate(cmd.Context(), service.SimulateRequest{
				Hits:     hits,
				PoolSize: pool,
				Seed:     changedUint64(cmd, "seed"),
			})
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return renderer(cmd).Simulation(res.Hit)
		},
	}
	cmd.Flags().Uint32("hits", 0, "Marked cards in the graveyard")
	cmd.Flags().Uint32P("pool", "g", 0, "Cards in the graveyard")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible draw")
	_ = cmd.MarkFlagRequired("hits")
	_ = cmd.MarkFlagRequired("pool")

	cmd.AddCommand(newSimulateCascadeCmd())
	return cmd
}

func newSimulateCascadeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Play random cascades and tabulate how many Hellraisers they found",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			req := service.CascadeSimRequest{
				PoolRequest: poolRequest(cmd),
				Seed:        changedUint64(cmd, "seed"),
			}
			if cmd.Flags().Changed("trials") {
				n, _ := cmd.Flags().GetInt("trials")
				req.Trials = &n
			}
			res, err := deps.calculator(nil).SimulateCascade(cmd.Context(), req)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return renderer(cmd).Markdown(report.DistributionMarkdown(res.Inputs.Triggers, res.Inputs.Pool, res.Histogram))
		},
	}
	poolFlags(cmd)
	cmd.Flags().Int("trials", 10000, "Cascades to play")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible run")
	return cmd
}

func changedUint64(cmd *cobra.Command, name string) *uint64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetUint64(name)
	return &v
}
