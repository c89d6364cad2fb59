package cli

import (
	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/orchestrator"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling API over HTTP",
		Long: "serve exposes /api/v1/simulate, /api/v1/compare and, with --db, the run\n" +
			"history under /api/v1/runs. Prometheus metrics are served on --metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := orchestrator.New(cmd.Context(), a.cfg, a.logger, a.version, a.errOut)
			if err != nil {
				return err
			}
			return orch.Run(cmd.Context())
		},
	}
	config.BindServeFlags(cmd.Flags(), a.cfg)
	return cmd
}
