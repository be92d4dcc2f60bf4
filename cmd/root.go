package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yardworks/shunter/config"
	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/milp"
	"github.com/yardworks/shunter/core/model"
	coreprogress "github.com/yardworks/shunter/core/progress"
	"github.com/yardworks/shunter/infra/logger"
	infraprogress "github.com/yardworks/shunter/infra/progress"
	"github.com/yardworks/shunter/infra/simplex"
	"github.com/yardworks/shunter/pkg/export"
)

var (
	cfgPath      string
	instancePath string
	outPath      string
	outFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "shunter",
	Short: "Freight yard schedule compiler",
	RunE:  runPlan,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&instancePath, "instance", "i", "instance.yaml", "instance file")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")
	rootCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewZerolog("plan", cfg.Logging)
	obs, err := coreprogress.New(cfg.Progress.Sinks)
	if err != nil {
		return fmt.Errorf("progress sinks: %w", err)
	}
	for _, s := range cfg.Progress.Sinks {
		if s.Type == "prometheus" {
			go func() {
				if serr := infraprogress.StartPromServer(ctx, cfg.Progress.PromAddr); serr != nil {
					logg.Errorf("prom server: %v", serr)
				}
			}()
			break
		}
	}

	in, err := model.LoadInstance(instancePath)
	if err != nil {
		return err
	}
	builder, err := compile.NewBuilder(cfg.Compile, model.DefaultCatalog(), logg, obs)
	if err != nil {
		return err
	}
	res, err := builder.Build(in)
	if err != nil {
		return err
	}

	solver, err := simplex.New(cfg.Solver, logg)
	if err != nil {
		return err
	}
	start := time.Now()
	sol, err := solver.Solve(ctx, res.Model)
	elapsed := time.Since(start)
	if err != nil {
		status := milp.StatusUnknown
		if errors.Is(err, milp.ErrInfeasible) {
			status = milp.StatusInfeasible
		}
		record(logg, obs, coreprogress.SolveEvent{
			RunID:   res.RunID,
			Engine:  "simplex",
			Status:  status.String(),
			Elapsed: elapsed,
		})
		return fmt.Errorf("solve: %w", err)
	}
	record(logg, obs, coreprogress.SolveEvent{
		RunID:     res.RunID,
		Engine:    "simplex",
		Status:    sol.Status.String(),
		Objective: sol.Objective,
		Elapsed:   elapsed,
	})

	sched := compile.Extract(sol, res)
	if outPath == "" {
		outPath = cfg.Export.Path
	}
	if !cmd.Flags().Changed("format") && cfg.Export.Format != "" {
		outFormat = cfg.Export.Format
	}
	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logg.Errorf("close output: %v", cerr)
			}
		}()
		w = f
	}
	switch outFormat {
	case "json":
		err = export.WriteJSON(w, sched)
	case "csv":
		err = export.WriteCSV(w, sched)
	default:
		return fmt.Errorf("unsupported output format: %s", outFormat)
	}
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	logg.Infof("plan %s: status=%s objective=%.3f tasks=%d", res.RunID, sched.Status, sched.Objective, len(sched.Tasks))
	return nil
}

func record(logg logger.Logger, obs coreprogress.Observer, ev coreprogress.SolveEvent) {
	if err := obs.RecordSolve(ev); err != nil {
		logg.Warnf("record solve: %v", err)
	}
}
