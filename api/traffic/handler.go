// Package traffic exposes the prediction service over HTTP: an HTML form,
// a map page and the JSON feed the map polls.
package traffic

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/core/prediction"
	"github.com/kilianp07/citytraffic/infra/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	msgModelUnavailable = "Model not available. Please train the model first."
	msgMapUnavailable   = "Model not available"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TrafficDataResponse is the JSON body of GET /get-traffic-data.
type TrafficDataResponse struct {
	Data []prediction.LocationTraffic `json:"data"`
}

// HealthResponse is the JSON body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// PredictionView is rendered by prediction.html.
type PredictionView struct {
	Prediction int
	Hour       int
	DayName    string
	IsHoliday  string
	Density    int
	Status     prediction.Status
}

// Handler serves the web interface.
type Handler struct {
	form      *prediction.Service
	maps      *prediction.Service
	locations []prediction.Location
	jitter    prediction.Jitter
	log       logger.Logger
}

// NewHandler creates a Handler. A nil jitter disables map perturbation.
func NewHandler(svc *prediction.Service, locations []prediction.Location, jitter prediction.Jitter, log logger.Logger) *Handler {
	if jitter == nil {
		jitter = prediction.NoJitter{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{
		form:      svc.WithSource("form"),
		maps:      svc.WithSource("map"),
		locations: locations,
		jitter:    jitter,
		log:       log,
	}
}

// Routes mounts every endpoint on a chi router with CORS for the given origins.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Get("/", h.Index)
	r.Post("/predict", h.Predict)
	r.Get("/map", h.Map)
	r.Get("/get-traffic-data", h.TrafficData)
	r.Get("/healthz", h.Health)
	return r
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", formView(""))
}

// Map handles GET /map.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "map.html", nil)
}

// Predict handles POST /predict with the form fields hour, day and is_holiday.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := h.form.Ready(); err != nil {
		http.Error(w, msgModelUnavailable, http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	fv, err := model.Encode(r.PostForm.Get("hour"), r.PostForm.Get("day"), defaultString(r.PostForm.Get("is_holiday"), "0"))
	if err != nil {
		h.render(w, http.StatusBadRequest, "index.html", formView(err.Error()))
		return
	}
	v, err := h.form.Predict(fv)
	if err != nil {
		h.fail(w, err)
		return
	}
	res := prediction.DeriveMetrics(v, nil)
	h.render(w, http.StatusOK, "prediction.html", PredictionView{
		Prediction: res.Volume,
		Hour:       fv.Hour,
		DayName:    fv.DayOfWeek.String(),
		IsHoliday:  yesNo(fv.Holiday()),
		Density:    res.Density,
		Status:     res.Status,
	})
}

// TrafficData handles GET /get-traffic-data?hour=12&day=0&is_holiday=0.
func (h *Handler) TrafficData(w http.ResponseWriter, r *http.Request) {
	if err := h.maps.Ready(); err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgMapUnavailable})
		return
	}
	q := r.URL.Query()
	fv, err := model.Encode(
		defaultString(q.Get("hour"), "12"),
		defaultString(q.Get("day"), "0"),
		defaultString(q.Get("is_holiday"), "0"),
	)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	data, err := h.maps.MapData(fv, h.locations, h.jitter)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgMapUnavailable})
			return
		}
		h.log.Errorf("map data: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "prediction failed"})
		return
	}
	writeJSON(w, http.StatusOK, TrafficDataResponse{Data: data})
}

// Health handles GET /healthz. The service is up even without a model.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Model: "loaded"}
	if err := h.form.Ready(); err != nil {
		resp.Model = "unavailable"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrModelUnavailable) {
		http.Error(w, msgModelUnavailable, http.StatusInternalServerError)
		return
	}
	h.log.Errorf("predict: %v", err)
	http.Error(w, "prediction failed", http.StatusInternalServerError)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorf("render %s: %v", name, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func formView(errMsg string) map[string]any {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	return map[string]any{"Days": model.Weekdays(), "Hours": hours, "Error": errMsg}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
