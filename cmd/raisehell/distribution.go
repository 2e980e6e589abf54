package main

import (
	"github.com/spf13/cobra"

	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/service"
)

func newDistributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "distribution",
		Aliases: []string{"dist", "hellraisers"},
		Short:   "Exact distribution of extra Hellraisers from a cascade",
		Example: `  raisehell distribution -g 20 -s 2 -b 1 -f 2
  raisehell distribution --preset seasons --triggers 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			parallel, _ := cmd.Flags().GetBool("parallel")
			res, err := deps.calculator(nil).Distribution(cmd.Context(), service.DistributionRequest{
				PoolRequest: poolRequest(cmd),
				Parallel:    parallel,
			})
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return renderer(cmd).Markdown(report.DistributionMarkdown(res.Inputs.Triggers, res.Inputs.Pool, res.Probabilities))
		},
	}
	poolFlags(cmd)
	cmd.Flags().Bool("parallel", false, "Enumerate top-level draws on $RAISEHELL_PARALLELISM workers")
	return cmd
}
