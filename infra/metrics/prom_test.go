package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
	"github.com/kilianp07/citytraffic/core/model"
)

func TestPromSink_RecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	ev := coremetrics.PredictionEvent{
		Features: model.FeatureVector{Hour: 8, DayOfWeek: model.Monday, IsHoliday: 1},
		Volume:   1260,
		Source:   "map",
		Time:     time.Now(),
	}
	if err := sink.RecordPrediction(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	expected := `
# HELP traffic_predictions_total Total number of traffic predictions served
# TYPE traffic_predictions_total counter
traffic_predictions_total{holiday="true",source="map"} 1
`
	if err := testutil.CollectAndCompare(sink.predictions, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.volume); c == 0 {
		t.Errorf("volume not recorded")
	}
}

func TestPromSink_RecordTrainingAndLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordTraining(coremetrics.TrainingEvent{Mode: "csv", R2: 0.87, MeanAbsError: 95}); err != nil {
		t.Fatalf("training: %v", err)
	}
	if v := testutil.ToFloat64(sink.r2.WithLabelValues("csv", "false")); v != 0.87 {
		t.Errorf("r2 gauge = %v", v)
	}
	if v := testutil.ToFloat64(sink.trainings.WithLabelValues("csv")); v != 1 {
		t.Errorf("training counter = %v", v)
	}
	if err := sink.RecordModelLoad(coremetrics.ModelLoadEvent{Loaded: false, Duration: time.Millisecond}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if v := testutil.ToFloat64(sink.loads.WithLabelValues("false")); v != 1 {
		t.Errorf("load counter = %v", v)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.predictions != second.predictions {
		t.Fatalf("expected shared collector")
	}
}
