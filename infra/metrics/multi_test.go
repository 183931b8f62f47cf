package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordPrediction(coremetrics.PredictionEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordTraining(coremetrics.TrainingEvent) error {
	r.count++
	return nil
}

type predictionOnly struct{ count int }

func (p *predictionOnly) RecordPrediction(coremetrics.PredictionEvent) error {
	p.count++
	return nil
}

type failingSink struct{}

func (failingSink) RecordPrediction(coremetrics.PredictionEvent) error { return errors.New("down") }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	p := &predictionOnly{}
	m := NewMultiSink(s1, s2, p)
	if err := m.RecordPrediction(coremetrics.PredictionEvent{}); err != nil {
		t.Fatalf("record prediction: %v", err)
	}
	if err := m.RecordTraining(coremetrics.TrainingEvent{}); err != nil {
		t.Fatalf("record training: %v", err)
	}
	if err := m.RecordModelLoad(coremetrics.ModelLoadEvent{}); err != nil {
		t.Fatalf("record load: %v", err)
	}
	if s1.count != 2 || s2.count != 2 || p.count != 1 {
		t.Fatalf("events not forwarded: %d %d %d", s1.count, s2.count, p.count)
	}
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	after := &predictionOnly{}
	m := NewMultiSink(failingSink{}, after)
	if err := m.RecordPrediction(coremetrics.PredictionEvent{}); err == nil {
		t.Fatalf("expected error")
	}
	if after.count != 0 {
		t.Fatalf("sinks after a failure should not be called")
	}
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	s, err := New(coremetrics.Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := s.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}
