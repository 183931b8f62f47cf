package training

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/core/synth"
)

// LoadCSV reads examples with the columns Hour, DayOfWeek, IsHoliday and
// TrafficVolume, in any order. Rows go through the same parsers as request
// input, so DayOfWeek may be a number or a day name.
func LoadCSV(r io.Reader) ([]model.Example, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", model.ErrTrainingData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", model.ErrTrainingData, err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	idx := make([]int, len(synth.CSVHeader))
	for i, name := range synth.CSVHeader {
		c, ok := col[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %s", model.ErrTrainingData, name)
		}
		idx[i] = c
	}

	var out []model.Example
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrTrainingData, line, err)
		}
		ex, err := parseRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrTrainingData, line, err)
		}
		out = append(out, ex)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no rows", model.ErrTrainingData)
	}
	return out, nil
}

func parseRow(rec []string, idx []int) (model.Example, error) {
	fv, err := model.Encode(rec[idx[0]], rec[idx[1]], rec[idx[2]])
	if err != nil {
		return model.Example{}, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[3]]), 64)
	if err != nil {
		return model.Example{}, fmt.Errorf("traffic volume %q: %v", rec[idx[3]], err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return model.Example{}, fmt.Errorf("traffic volume %q: must be a finite non-negative number", rec[idx[3]])
	}
	return model.Example{Features: fv, Volume: v}, nil
}
