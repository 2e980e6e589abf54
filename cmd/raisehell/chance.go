package main

import (
	"github.com/spf13/cobra"

	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/service"
)

func newChanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chance",
		Short: "Chance that repeated three-card exiles find a marked card",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			hits, _ := cmd.Flags().GetUint32("hits")
			pool, _ := cmd.Flags().GetUint32("pool")
			triggers, _ := cmd.Flags().GetUint32("triggers")
			res, err := deps.calculator(nil).HitChance(cmd.Context(), service.HitChanceRequest{
				Hits:     hits,
				PoolSize: pool,
				Triggers: &triggers,
			})
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return renderer(cmd).Markdown(report.ChanceMarkdown(res.Hits, res.PoolSize, res.Triggers, res.Probability))
		},
	}
	cmd.Flags().Uint32("hits", 0, "Marked cards in the graveyard")
	cmd.Flags().Uint32P("pool", "g", 0, "Cards in the graveyard")
	cmd.Flags().Uint32P("triggers", "t", 1, "Number of exiles")
	_ = cmd.MarkFlagRequired("hits")
	_ = cmd.MarkFlagRequired("pool")
	return cmd
}
