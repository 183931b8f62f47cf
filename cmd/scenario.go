package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/citytraffic/core/model"
)

// printScenario writes one prediction in the scenario block format.
func printScenario(w io.Writer, fv model.FeatureVector, volume float64) {
	status := "Regular Day"
	if fv.Holiday() {
		status = "HOLIDAY"
	}
	fmt.Fprintf(w, "Time: %d:00 | Day: %s | %s\n", fv.Hour, fv.DayOfWeek, status)
	fmt.Fprintf(w, "Predicted Traffic: %d cars\n", int(volume))
	fmt.Fprintln(w, strings.Repeat("-", 30))
}
