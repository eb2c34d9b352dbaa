package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gopower/adapters/bayes"
	"gopower/adapters/excel"
	"gopower/app"
	"gopower/domain/design"
	"gopower/internal/rng"
	"gopower/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gopower-cli",
		Short: "Monte Carlo design analysis: power and evidence sweeps over parameter grids",
	}

	rootCmd.AddCommand(
		newSweepCmd(),
		newGridCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type sweepFlags struct {
	participants int
	levels       string
	aMeans       string
	bMeans       string
	interceptSD  float64
	slopeSD      float64
	noiseSD      float64
	replicates   int
	threshold    float64
	seed         int64
	mode         string
	workers      int
	exportPath   string
	asJSON       bool
}

func newSweepCmd() *cobra.Command {
	var flags sweepFlags

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a Monte Carlo sweep over the parameter grid",
		Long: `Run a full grid sweep: for every (intercept mean, slope mean) cell, simulate
replicate datasets, score each with the built-in Bayes factor comparator, and
aggregate the proportion of statistics above the evidence threshold.

Example: gopower-cli sweep --participants 20 --b-means 0,0.2,0.4,0.6 --replicates 500 --seed 1234`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			service := app.NewSweepService(bayes.NewLinearComparator(), rng.New(), testkit.NewInMemorySweepRepository(), flags.workers)
			result, err := service.RunSweep(cmd.Context(), req)
			if err != nil {
				return err
			}

			if flags.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			renderTable(cmd, result)
			cmd.Printf("\nsweep %s  seed %d  threshold %g  fingerprint %s  runtime %dms\n",
				result.SweepID, req.Seed, req.Threshold, result.Fingerprint, result.RuntimeMs)

			if flags.exportPath != "" {
				if err := excel.NewWriter().Export(result, flags.exportPath); err != nil {
					return err
				}
				cmd.Printf("exported workbook to %s\n", flags.exportPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flags.participants, "participants", 20, "number of simulated participants")
	cmd.Flags().StringVar(&flags.levels, "levels", "0,1,2,3", "comma-separated within-subject condition levels")
	cmd.Flags().StringVar(&flags.aMeans, "a-means", "0", "comma-separated intercept-mean axis (outer)")
	cmd.Flags().StringVar(&flags.bMeans, "b-means", "0,0.2,0.4,0.6,0.8,1.0", "comma-separated slope-mean axis (inner)")
	cmd.Flags().Float64Var(&flags.interceptSD, "intercept-sd", 1, "between-participant intercept spread")
	cmd.Flags().Float64Var(&flags.slopeSD, "slope-sd", 0.5, "between-participant slope spread")
	cmd.Flags().Float64Var(&flags.noiseSD, "noise-sd", 1, "residual spread (constant-effect mode)")
	cmd.Flags().IntVar(&flags.replicates, "replicates", 1000, "replicate simulations per grid point")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 3, "evidence decision threshold")
	cmd.Flags().Int64Var(&flags.seed, "seed", 42, "base random seed")
	cmd.Flags().StringVar(&flags.mode, "mode", string(design.ModeHierarchical), "generation mode: hierarchical or constant_effect")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "concurrent grid-point workers (0 = one per CPU)")
	cmd.Flags().StringVar(&flags.exportPath, "export", "", "write the result table to an xlsx workbook")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "emit the full result as JSON")

	return cmd
}

func newGridCmd() *cobra.Command {
	var aMeans, bMeans string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Preview the grid enumeration order without running simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			aVals, err := parseFloats(aMeans)
			if err != nil {
				return fmt.Errorf("invalid --a-means: %w", err)
			}
			bVals, err := parseFloats(bMeans)
			if err != nil {
				return fmt.Errorf("invalid --b-means: %w", err)
			}
			grid := design.Grid{
				InterceptMeans: design.GridAxis{Label: "intercept_mean", Values: aVals},
				SlopeMeans:     design.GridAxis{Label: "slope_mean", Values: bVals},
			}
			if err := grid.Validate(); err != nil {
				return err
			}
			for i, p := range grid.Enumerate() {
				cmd.Printf("%4d  intercept_mean=%g  slope_mean=%g\n", i, p.InterceptMean, p.SlopeMean)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&aMeans, "a-means", "0,1", "comma-separated intercept-mean axis (outer)")
	cmd.Flags().StringVar(&bMeans, "b-means", "0,0.5", "comma-separated slope-mean axis (inner)")

	return cmd
}

func (f sweepFlags) request() (app.SweepRequest, error) {
	levels, err := parseFloats(f.levels)
	if err != nil {
		return app.SweepRequest{}, fmt.Errorf("invalid --levels: %w", err)
	}
	aVals, err := parseFloats(f.aMeans)
	if err != nil {
		return app.SweepRequest{}, fmt.Errorf("invalid --a-means: %w", err)
	}
	bVals, err := parseFloats(f.bMeans)
	if err != nil {
		return app.SweepRequest{}, fmt.Errorf("invalid --b-means: %w", err)
	}

	return app.SweepRequest{
		Design: design.DesignSpec{
			Participants: f.participants,
			Levels:       levels,
			Mode:         design.GenerationMode(f.mode),
			Pair:         design.PairSlopeVsIntercept,
		},
		Grid: design.Grid{
			InterceptMeans: design.GridAxis{Label: "intercept_mean", Values: aVals},
			SlopeMeans:     design.GridAxis{Label: "slope_mean", Values: bVals},
			InterceptSD:    f.interceptSD,
			SlopeSD:        f.slopeSD,
			NoiseSD:        f.noiseSD,
		},
		Replicates: f.replicates,
		Threshold:  f.threshold,
		Seed:       f.seed,
	}, nil
}

func renderTable(cmd *cobra.Command, result *design.SweepResult) {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Intercept Mean", "Slope Mean", "Metric", "Replicates", "Missing", "Evidence Median"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, row := range result.Table.Rows {
		median := "undefined"
		if row.Evidence.Defined {
			median = strconv.FormatFloat(row.Evidence.Median, 'g', 6, 64)
		}
		table.Append([]string{
			strconv.FormatFloat(row.Point.InterceptMean, 'g', -1, 64),
			strconv.FormatFloat(row.Point.SlopeMean, 'g', -1, 64),
			row.Metric.String(),
			strconv.Itoa(row.Replicates),
			strconv.Itoa(row.MissingCount),
			median,
		})
	}

	table.Render()
	cmd.Printf("%s", buf.String())
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("no values in %q", csv)
	}
	return vals, nil
}
