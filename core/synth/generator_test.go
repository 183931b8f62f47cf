package synth

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/citytraffic/core/model"
)

func TestGenerateCoversEveryCombinationOnce(t *testing.T) {
	ex := Generate(42)
	require.Len(t, ex, Size)
	seen := map[model.FeatureVector]bool{}
	for _, e := range ex {
		if seen[e.Features] {
			t.Fatalf("duplicate combination %+v", e.Features)
		}
		seen[e.Features] = true
		if e.Volume < MinVolume {
			t.Fatalf("volume below clamp: %v", e.Volume)
		}
	}
	assert.Len(t, seen, 336)
}

func TestGenerateDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, WriteCSV(&a, Generate(7)))
	require.NoError(t, WriteCSV(&b, Generate(7)))
	assert.Equal(t, a.Bytes(), b.Bytes())

	var c bytes.Buffer
	require.NoError(t, WriteCSV(&c, Generate(8)))
	assert.NotEqual(t, a.Bytes(), c.Bytes())
}

func TestExpectedVolume(t *testing.T) {
	cases := []struct {
		name string
		fv   model.FeatureVector
		want float64
	}{
		{"weekday rush", model.FeatureVector{Hour: 8, DayOfWeek: model.Monday}, 1800},
		{"weekday rush holiday", model.FeatureVector{Hour: 8, DayOfWeek: model.Monday, IsHoliday: 1}, 1260},
		{"weekend midday", model.FeatureVector{Hour: 12, DayOfWeek: model.Saturday}, 800},
		{"weekday night", model.FeatureVector{Hour: 3, DayOfWeek: model.Wednesday}, 840},
		{"weekend night holiday", model.FeatureVector{Hour: 23, DayOfWeek: model.Sunday, IsHoliday: 1}, 392},
		{"evening rush boundary", model.FeatureVector{Hour: 20, DayOfWeek: model.Friday}, 1200},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ExpectedVolume(c.fv), 1e-9, c.name)
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Generate(1)[:2]))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"0", "0", "0"}, rows[1][:3])
	assert.Equal(t, []string{"0", "0", "1"}, rows[2][:3])
}
