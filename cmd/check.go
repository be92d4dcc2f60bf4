package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yardworks/shunter/config"
	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/model"
	coreprogress "github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compile an instance without solving it",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewZerolog("check", cfg.Logging)
	in, err := model.LoadInstance(instancePath)
	if err != nil {
		return err
	}
	builder, err := compile.NewBuilder(cfg.Compile, model.DefaultCatalog(), logg, coreprogress.Nop{})
	if err != nil {
		return err
	}
	res, err := builder.Build(in)
	if err != nil {
		return err
	}

	m := res.Model
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", res.RunID)
	fmt.Fprintf(out, "horizon %d steps\n", res.Horizon.Steps)
	fmt.Fprintf(out, "%d variables, %d constraints, %d links\n", len(m.Vars()), len(m.Constraints()), len(m.Ands()))
	fmt.Fprintf(out, "fingerprint %s\n", m.Fingerprint())
	return nil
}
