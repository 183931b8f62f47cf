package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/citytraffic/core/artifact"
	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/core/prediction"
	"github.com/kilianp07/citytraffic/infra/logger"
)

const (
	msgInvalidDay     = "Invalid day. Use Mon,Tue,Wed,Thu,Fri,Sat,Sun or full name."
	msgInvalidHour    = "Invalid hour. Must be integer 0-23."
	msgInvalidHoliday = "Invalid holiday flag. Use y/n, yes/no, 1/0 or true/false."
	msgNoModel        = "Model not available. Please train the model first."
)

var predictCmd = &cobra.Command{
	Use:   "predict [day hour [holiday]]",
	Short: "Predict traffic for one scenario",
	Long: "Predict traffic for a day, hour and holiday flag. With fewer than two " +
		"arguments the values are read interactively.",
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var fv model.FeatureVector
	if len(args) >= 2 {
		hol := "n"
		if len(args) > 2 {
			hol = args[2]
		}
		fv, err = parseScenario(out, args[0], args[1], hol)
	} else {
		fmt.Fprintln(out, "--- Interactive Prediction ---")
		fv, err = promptScenario(cmd.InOrStdin(), out)
		if err == nil {
			fmt.Fprintln(out, "\nResult:")
		}
	}
	if err != nil {
		return err
	}

	store := artifact.NewStore(cfg.Model.Path, artifact.WithLogger(logger.New("artifact")))
	svc := prediction.NewService(store, nil, logger.New("prediction")).WithSource("cli")
	v, err := svc.Predict(fv)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			fmt.Fprintln(out, msgNoModel)
		}
		return err
	}
	printScenario(out, fv, v)
	return nil
}

// parseScenario validates raw values in order, printing the message for the
// first invalid one.
func parseScenario(out io.Writer, day, hour, holiday string) (model.FeatureVector, error) {
	d, err := model.ParseDay(day)
	if err != nil {
		fmt.Fprintln(out, msgInvalidDay)
		return model.FeatureVector{}, err
	}
	h, err := model.ParseHour(hour)
	if err != nil {
		fmt.Fprintln(out, msgInvalidHour)
		return model.FeatureVector{}, err
	}
	if strings.TrimSpace(holiday) == "" {
		holiday = "n"
	}
	hol, err := model.ParseHoliday(holiday)
	if err != nil {
		fmt.Fprintln(out, msgInvalidHoliday)
		return model.FeatureVector{}, err
	}
	return model.NewFeatureVector(h, d, hol)
}

func promptScenario(in io.Reader, out io.Writer) (model.FeatureVector, error) {
	sc := bufio.NewScanner(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		if sc.Scan() {
			return sc.Text()
		}
		return ""
	}
	day := ask("Enter day (Mon/Tue/... or Monday): ")
	if _, err := model.ParseDay(day); err != nil {
		fmt.Fprintln(out, msgInvalidDay)
		return model.FeatureVector{}, err
	}
	hour := ask("Enter hour (0-23): ")
	if _, err := model.ParseHour(hour); err != nil {
		fmt.Fprintln(out, msgInvalidHour)
		return model.FeatureVector{}, err
	}
	holiday := ask("Is it a holiday? (y/n): ")
	return parseScenario(out, day, hour, holiday)
}
