package cli

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/termolab/pyrofit/internal/domain/model"
)

func newPreprocessCmd(ac *appContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preprocess FILE",
		Short: "Derive the conversion and rate curves without fitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, curves, err := ac.session.LoadTrace(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printHeader(cmd, tr)
			cmd.Printf("deltaQ: %g\n", curves.DeltaQ)

			if outPath != "" {
				if err := writeCurvesCSV(outPath, tr, curves); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				cmd.Printf("curves written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write derived curves as CSV")

	return cmd
}

func writeCurvesCSV(path string, tr model.Trace, curves model.Curves) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"temperature_k", "hrr", "alpha", "rate"}); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		record := []string{
			formatFloat(tr.Temperature[i]),
			formatFloat(tr.HRR[i]),
			formatFloat(curves.Alpha[i]),
			formatFloat(curves.Rate[i]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
