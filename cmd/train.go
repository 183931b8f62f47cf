package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/citytraffic/core/synth"
	"github.com/kilianp07/citytraffic/core/training"
	"github.com/kilianp07/citytraffic/infra/logger"
	"github.com/kilianp07/citytraffic/infra/metrics"
)

type trainOptions struct {
	source     string
	csvPath    string
	out        string
	estimators int
	maxDepth   int
	seed       uint64
	export     string
}

var trainFlags trainOptions

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model and save the artifact",
	RunE:  runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&trainFlags.source, "source", "", "training data: synthetic or csv")
	f.StringVar(&trainFlags.csvPath, "csv", "", "CSV file for --source csv")
	f.StringVar(&trainFlags.out, "out", "", "artifact path")
	f.IntVar(&trainFlags.estimators, "estimators", 0, "number of trees")
	f.IntVar(&trainFlags.maxDepth, "max-depth", 0, "maximum tree depth, 0 for unbounded")
	f.Uint64Var(&trainFlags.seed, "seed", 0, "random seed for data generation and bootstrap")
	f.StringVar(&trainFlags.export, "export", "", "also write the synthetic data set as CSV")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc := cfg.Training
	if trainFlags.source != "" {
		tc.Source = trainFlags.source
	}
	if trainFlags.csvPath != "" {
		tc.CSVPath = trainFlags.csvPath
	}
	if trainFlags.estimators > 0 {
		tc.NEstimators = trainFlags.estimators
	}
	if cmd.Flags().Changed("max-depth") {
		d := trainFlags.maxDepth
		tc.MaxDepth = &d
	}
	if cmd.Flags().Changed("seed") {
		tc.Seed = trainFlags.seed
	}
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("training config: %w", err)
	}
	out := cfg.Model.Path
	if trainFlags.out != "" {
		out = trainFlags.out
	}

	sink, err := metrics.New(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	if c, ok := sink.(interface{ Close() }); ok {
		defer c.Close()
	}
	trainer := training.NewTrainer(out, logger.New("trainer"), sink)
	w := cmd.OutOrStdout()

	var rep *training.Report
	switch training.Mode(tc.Source) {
	case training.ModeCSV:
		f, err := os.Open(tc.CSVPath)
		if err != nil {
			return fmt.Errorf("open training data: %w", err)
		}
		defer f.Close()
		rep, err = trainer.TrainCSV(f, tc.Options())
		if err != nil {
			return err
		}
	default:
		if trainFlags.export != "" {
			if err := exportSynthetic(trainFlags.export, tc.Seed); err != nil {
				return err
			}
			fmt.Fprintf(w, "Synthetic data written to %s\n", trainFlags.export)
		}
		rep, err = trainer.TrainSynthetic(tc.Seed, tc.Options())
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Data Loaded: %d rows (train %d, test %d)\n", rep.Rows, rep.TrainRows, rep.TestRows)
	scope := "held-out"
	if rep.InSample {
		scope = "in-sample"
	}
	fmt.Fprintf(w, "Model Accuracy (%s): %.2f%%\n", scope, rep.Quality.R2*100)
	fmt.Fprintf(w, "Average Error: +/- %d cars\n", int(rep.Quality.MeanAbsError))
	fmt.Fprintf(w, "Model saved to %s (id %s)\n\n", rep.Path, rep.Artifact.ID)
	for _, s := range training.SampleScenarios {
		fmt.Fprintln(w, s.Label)
		printScenario(w, s.Features, rep.Artifact.Predict(s.Features))
	}
	return nil
}

func exportSynthetic(path string, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := synth.WriteCSV(f, synth.Generate(seed)); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}
