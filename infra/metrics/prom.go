package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/citytraffic/core/metrics"
)

// PromSink records prediction, model load and training events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	volume      *prometheus.HistogramVec
	loads       *prometheus.CounterVec
	loadTime    prometheus.Histogram
	trainings   *prometheus.CounterVec
	r2          *prometheus.GaugeVec
	mae         *prometheus.GaugeVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// that are already registered are reused.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_predictions_total",
			Help: "Total number of traffic predictions served",
		}, []string{"source", "holiday"}),
		volume: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traffic_predicted_volume",
			Help:    "Predicted traffic volume in cars",
			Buckets: prometheus.LinearBuckets(0, 250, 10),
		}, []string{"source"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_model_loads_total",
			Help: "Model artifact load attempts",
		}, []string{"loaded"}),
		loadTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "traffic_model_load_seconds",
			Help:    "Time spent reading and decoding the model artifact",
			Buckets: prometheus.DefBuckets,
		}),
		trainings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_training_runs_total",
			Help: "Completed training runs",
		}, []string{"mode"}),
		r2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "traffic_model_r2",
			Help: "R2 score of the last training run",
		}, []string{"mode", "in_sample"}),
		mae: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "traffic_model_mean_abs_error",
			Help: "Mean absolute error of the last training run",
		}, []string{"mode", "in_sample"}),
	}
	var err error
	if s.predictions, err = register(reg, s.predictions); err != nil {
		return nil, err
	}
	if s.volume, err = register(reg, s.volume); err != nil {
		return nil, err
	}
	if s.loads, err = register(reg, s.loads); err != nil {
		return nil, err
	}
	if s.loadTime, err = register(reg, s.loadTime); err != nil {
		return nil, err
	}
	if s.trainings, err = register(reg, s.trainings); err != nil {
		return nil, err
	}
	if s.r2, err = register(reg, s.r2); err != nil {
		return nil, err
	}
	if s.mae, err = register(reg, s.mae); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPrediction counts the prediction and observes its volume.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Source, strconv.FormatBool(ev.Features.Holiday())).Inc()
	s.volume.WithLabelValues(ev.Source).Observe(ev.Volume)
	return nil
}

// RecordModelLoad counts the load attempt and its duration.
func (s *PromSink) RecordModelLoad(ev coremetrics.ModelLoadEvent) error {
	s.loads.WithLabelValues(strconv.FormatBool(ev.Loaded)).Inc()
	s.loadTime.Observe(ev.Duration.Seconds())
	return nil
}

// RecordTraining counts the run and exposes its scores.
func (s *PromSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	inSample := strconv.FormatBool(ev.InSample)
	s.trainings.WithLabelValues(ev.Mode).Inc()
	s.r2.WithLabelValues(ev.Mode, inSample).Set(ev.R2)
	s.mae.WithLabelValues(ev.Mode, inSample).Set(ev.MeanAbsError)
	return nil
}
