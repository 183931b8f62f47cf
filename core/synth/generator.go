// Package synth produces the synthetic training set: every combination of
// hour, day and holiday flag with a rush-hour shaped traffic volume.
package synth

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/citytraffic/core/model"
)

const (
	// Size is the number of generated examples: 24 hours x 7 days x 2 holiday flags.
	Size = 24 * 7 * 2

	baseVolume  = 1000.0
	rushBonus   = 500.0
	nightCut    = 300.0
	weekdayMul  = 1.2
	weekendMul  = 0.8
	holidayMul  = 0.7
	noiseStdDev = 100.0
	// MinVolume is the lower clamp applied to every generated volume.
	MinVolume = 100.0
)

// CSVHeader is the column layout shared by exported and imported training files.
var CSVHeader = []string{"Hour", "DayOfWeek", "IsHoliday", "TrafficVolume"}

// Generate returns Size examples. The same seed always yields the same
// volumes in the same order.
func Generate(seed uint64) []model.Example {
	noise := distuv.Normal{Mu: 0, Sigma: noiseStdDev, Src: rand.NewPCG(seed, seed)}
	out := make([]model.Example, 0, Size)
	for hour := 0; hour < 24; hour++ {
		for _, day := range model.Weekdays() {
			for holiday := 0; holiday < 2; holiday++ {
				fv := model.FeatureVector{Hour: hour, DayOfWeek: day, IsHoliday: holiday}
				v := math.Max(MinVolume, ExpectedVolume(fv)+noise.Rand())
				out = append(out, model.Example{Features: fv, Volume: v})
			}
		}
	}
	return out
}

// ExpectedVolume is the noise-free volume for a feature vector. Additive hour
// adjustments are applied first, then the weekday and holiday multipliers.
func ExpectedVolume(fv model.FeatureVector) float64 {
	v := baseVolume
	if isRushHour(fv.Hour) {
		v += rushBonus
	}
	if isNight(fv.Hour) {
		v -= nightCut
	}
	if fv.DayOfWeek.IsWeekday() {
		v *= weekdayMul
	} else {
		v *= weekendMul
	}
	if fv.Holiday() {
		v *= holidayMul
	}
	return v
}

func isRushHour(h int) bool { return (h >= 7 && h < 10) || (h >= 17 && h < 20) }

func isNight(h int) bool { return h >= 22 || h < 6 }

// WriteCSV writes examples using CSVHeader so they can be fed back to the
// CSV training mode.
func WriteCSV(w io.Writer, examples []model.Example) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, ex := range examples {
		rec := []string{
			strconv.Itoa(ex.Features.Hour),
			strconv.Itoa(int(ex.Features.DayOfWeek)),
			strconv.Itoa(ex.Features.IsHoliday),
			strconv.FormatFloat(ex.Volume, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
