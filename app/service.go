package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/citytraffic/api/traffic"
	"github.com/kilianp07/citytraffic/config"
	"github.com/kilianp07/citytraffic/core/artifact"
	"github.com/kilianp07/citytraffic/core/prediction"
	"github.com/kilianp07/citytraffic/infra/logger"
	"github.com/kilianp07/citytraffic/infra/metrics"
)

// Service wires the artifact store, predictor and web handlers.
type Service struct {
	Store     *artifact.Store
	Predictor *prediction.Service
	sink      metrics.Sink
	handler   http.Handler
	cfg       config.ServerConfig
	log       logger.Logger
	promOn    bool
	promPort  string
}

// New creates a Service from the configuration. The model is not loaded
// until the first request needs it.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := metrics.New(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store := artifact.NewStore(cfg.Model.Path,
		artifact.WithLogger(logger.New("artifact")),
		artifact.WithRecorder(sink),
	)
	pred := prediction.NewService(store, sink, logger.New("prediction"))

	var jitter prediction.Jitter = prediction.NoJitter{}
	if !cfg.Map.DisableJitter {
		seed := cfg.Map.JitterSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		jitter = prediction.NewRandomJitter(seed)
	}
	h := traffic.NewHandler(pred, cfg.Map.Locations, jitter, logger.New("http"))

	return &Service{
		Store:     store,
		Predictor: pred,
		sink:      sink,
		handler:   h.Routes(cfg.Server.AllowedOrigins),
		cfg:       cfg.Server,
		log:       logg,
		promOn:    cfg.Metrics.PrometheusEnabled,
		promPort:  cfg.Metrics.PrometheusPort,
	}, nil
}

// Handler returns the HTTP handler serving the web interface.
func (s *Service) Handler() http.Handler { return s.handler }

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	if s.promOn {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s, model %s", s.cfg.Address, s.Store.Path())
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases resources held by the metrics sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
