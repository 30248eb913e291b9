package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termolab/pyrofit/internal/domain/kinetics"
	"github.com/termolab/pyrofit/internal/domain/model"
)

func newSynthCmd() *cobra.Command {
	cfg := kinetics.SynthConfig{
		Params: model.Params{A: 1e11, Ea: 1.2e5, N: 1, M: 0.5, AlphaStar: 0.3},
		Beta:   10,
		TStart: 400,
		TEnd:   900,
		TStep:  1,
		DeltaQ: 140,
	}
	var outPath string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic HRR trace from known parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := kinetics.Synthesize(cfg)
			if err != nil {
				return err
			}
			if err := writeTraceFile(outPath, tr); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			cmd.Printf("%d points written to %s\n", tr.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().Float64Var(&cfg.Params.A, "a", cfg.Params.A, "pre-exponential factor")
	cmd.Flags().Float64Var(&cfg.Params.Ea, "ea", cfg.Params.Ea, "activation energy, J/mol")
	cmd.Flags().Float64Var(&cfg.Params.N, "n", cfg.Params.N, "reaction order in (1-alpha)")
	cmd.Flags().Float64Var(&cfg.Params.M, "m", cfg.Params.M, "reaction order in alpha")
	cmd.Flags().Float64Var(&cfg.Params.AlphaStar, "alpha-star", cfg.Params.AlphaStar, "autocatalytic offset")
	cmd.Flags().Float64Var(&cfg.Beta, "beta", cfg.Beta, "heating rate")
	cmd.Flags().Float64Var(&cfg.TStart, "t-start", cfg.TStart, "grid start, K")
	cmd.Flags().Float64Var(&cfg.TEnd, "t-end", cfg.TEnd, "grid end, K")
	cmd.Flags().Float64Var(&cfg.TStep, "t-step", cfg.TStep, "grid step, K")
	cmd.Flags().Float64Var(&cfg.DeltaQ, "delta-q", cfg.DeltaQ, "total heat release scale")
	cmd.Flags().StringVar(&outPath, "out", "synthetic.txt", "output trace file")

	return cmd
}

// writeTraceFile emits the plain-text format the loader reads back.
func writeTraceFile(path string, tr model.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range tr.Header {
		fmt.Fprintf(w, "# %s\n", line)
	}
	for i := 0; i < tr.Len(); i++ {
		fmt.Fprintf(w, "%s\t%s\n", formatFloat(tr.Temperature[i]), formatFloat(tr.HRR[i]))
	}
	return w.Flush()
}
