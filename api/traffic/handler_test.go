package traffic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/citytraffic/core/artifact"
	"github.com/kilianp07/citytraffic/core/forest"
	"github.com/kilianp07/citytraffic/core/model"
	"github.com/kilianp07/citytraffic/core/prediction"
	"github.com/kilianp07/citytraffic/core/synth"
	"github.com/kilianp07/citytraffic/core/training"
)

var (
	fixtureOnce sync.Once
	fixture     *artifact.Artifact
)

func trainedArtifact(t *testing.T) *artifact.Artifact {
	t.Helper()
	fixtureOnce.Do(func() {
		f, err := training.Train(synth.Generate(42), forest.Options{NEstimators: 20, MaxDepth: 10, Seed: 42})
		require.NoError(t, err)
		fixture = artifact.New(f, "synthetic", synth.Size, artifact.Quality{InSample: true})
	})
	return fixture
}

func newRouter(src prediction.ModelSource, j prediction.Jitter) http.Handler {
	svc := prediction.NewService(src, nil, nil)
	return NewHandler(svc, prediction.DefaultLocations, j, nil).Routes([]string{"*"})
}

func postForm(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexAndMapPages(t *testing.T) {
	h := newRouter(prediction.MockModelSource{}, nil)

	rec := get(h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="hour"`)
	assert.Contains(t, rec.Body.String(), "Wed")

	rec = get(h, "/map")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/get-traffic-data")
}

func TestPredictForm(t *testing.T) {
	h := newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, nil)
	rec := postForm(h, url.Values{"hour": {"18"}, "day": {"4"}, "is_holiday": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Predicted Traffic:")
	assert.Contains(t, body, "Day: Fri")
	assert.Contains(t, body, "Holiday: No")
}

func TestPredictFormInvalidInput(t *testing.T) {
	h := newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, nil)
	for _, form := range []url.Values{
		{"hour": {"24"}, "day": {"0"}},
		{"hour": {"x"}, "day": {"0"}},
		{"hour": {"8"}, "day": {"Funday"}},
		{"hour": {"8"}, "day": {"0"}, "is_holiday": {"maybe"}},
	} {
		rec := postForm(h, form)
		assert.Equal(t, http.StatusBadRequest, rec.Code, form.Encode())
	}
}

func TestPredictFormWithoutModel(t *testing.T) {
	h := newRouter(prediction.MockModelSource{}, nil)
	rec := postForm(h, url.Values{"hour": {"8"}, "day": {"0"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Model not available. Please train the model first.")
}

func TestPredictRequiresPost(t *testing.T) {
	h := newRouter(prediction.MockModelSource{}, nil)
	rec := get(h, "/predict")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTrafficData(t *testing.T) {
	h := newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, prediction.FixedJitter(0))
	rec := get(h, "/get-traffic-data?hour=12&day=0&is_holiday=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp TrafficDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, len(prediction.DefaultLocations))
	first := resp.Data[0]
	assert.Equal(t, prediction.DefaultLocations[0].Name, first.Name)
	for _, p := range resp.Data {
		assert.GreaterOrEqual(t, p.Volume, prediction.MinVolume)
		assert.GreaterOrEqual(t, p.Density, 0)
		assert.LessOrEqual(t, p.Density, 100)
		// Zero jitter gives every location the same reading.
		assert.Equal(t, first.Result, p.Result)
	}

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"name", "lat", "lng", "traffic_volume", "traffic_density", "status"} {
		assert.Contains(t, raw["data"][0], key)
	}
}

func TestTrafficDataDefaults(t *testing.T) {
	h := newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, nil)
	rec := get(h, "/get-traffic-data")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrafficDataErrors(t *testing.T) {
	h := newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, nil)
	rec := get(h, "/get-traffic-data?hour=99&day=0&is_holiday=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.NotEmpty(t, e.Error)

	h = newRouter(prediction.MockModelSource{}, nil)
	rec = get(h, "/get-traffic-data?hour=12&day=0&is_holiday=0")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "Model not available", e.Error)
}

func TestHealth(t *testing.T) {
	var resp HealthResponse

	rec := get(newRouter(prediction.MockModelSource{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Model: "unavailable"}, resp)

	rec = get(newRouter(prediction.MockModelSource{Err: model.ErrModelUnavailable}, nil), "/healthz")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Model)

	rec = get(newRouter(prediction.MockModelSource{Artifact: trainedArtifact(t)}, nil), "/healthz")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "loaded", resp.Model)
}
