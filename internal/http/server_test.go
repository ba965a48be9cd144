package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "ecoroute/internal/http"
	"ecoroute/internal/http/handlers"
	"ecoroute/internal/maps"
	"ecoroute/internal/modules/aiusage"
	"ecoroute/internal/modules/analysis"
	"ecoroute/internal/trip"
)

type stubAnalyzer struct {
	mu     sync.Mutex
	result *trip.RouteAnalysis
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ trip.Request) (*trip.RouteAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := *s.result
	return &out, nil
}

func (s *stubAnalyzer) Close() error { return nil }

type memoryHistory struct {
	mu   sync.Mutex
	recs []analysis.Record
}

func (m *memoryHistory) Save(_ context.Context, rec analysis.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memoryHistory) Get(_ context.Context, id string) (*analysis.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, analysis.ErrNotFound
}

func (m *memoryHistory) ListByClient(_ context.Context, clientID string, limit int) ([]analysis.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []analysis.Record
	for _, r := range m.recs {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type denyQuota struct{}

func (denyQuota) Remaining(context.Context, string) (int, error) { return 0, nil }

func (denyQuota) UseToken(context.Context, string) error { return aiusage.ErrInsufficientTokens }

type stubPlaces struct{}

func (stubPlaces) SuggestCities(_ context.Context, input string) ([]maps.CitySuggestion, error) {
	return []maps.CitySuggestion{{Description: input + ", SP, Brasil", PlaceID: "p1"}}, nil
}

func sampleAnalysis() *trip.RouteAnalysis {
	return &trip.RouteAnalysis{
		DistanceKm:           434.5,
		EstimatedDuration:    "5h 45min",
		AverageEfficiency:    12.3,
		ConsumptionLiters:    35.3,
		EstimatedCost:        211.8,
		RefuelRecommendation: "Abasteça em Resende.",
		RouteSummary:         "Via Dutra.",
		Stops: []trip.StopPoint{
			{Name: "Frango Assado", Type: trip.StopRestaurant, Description: "Clássico.", Rating: 4.2, DistanceFromStart: 120},
		},
		Sources: []trip.SourceCitation{},
	}
}

func validBody() map[string]any {
	return map[string]any{
		"startCity": "São Paulo, SP",
		"endCity":   "Rio de Janeiro, RJ",
		"vehicle":   map[string]any{"model": "Honda Civic", "year": "2022", "fuelType": "Gasolina"},
	}
}

type fixture struct {
	router   http.Handler
	analyzer *stubAnalyzer
}

func newFixture(t *testing.T, deps analysis.Deps, places handlers.CitySuggester) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := &stubAnalyzer{result: sampleAnalysis()}
	if deps.Analyzer == nil {
		deps.Analyzer = a
	}
	srv := apihttp.NewServer(apihttp.ServerDeps{
		Analysis: analysis.NewService(deps),
		Places:   places,
	})
	return fixture{router: srv.Routes(), analyzer: a}
}

func do(h http.Handler, method, path string, body any, clientID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	w := do(f.router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAnalyze_Created(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	w := do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec analysis.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "c1", rec.ClientID)
	assert.Equal(t, 434.5, rec.Analysis.DistanceKm)
	assert.Len(t, rec.Analysis.Stops, 1)
	assert.Equal(t, 1, f.analyzer.calls)
}

func TestAnalyze_InvalidFuelIs400(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	body := validBody()
	body["vehicle"] = map[string]any{"model": "Civic", "year": "2022", "fuelType": "Hidrogênio"}

	w := do(f.router, http.MethodPost, "/api/analyses", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.analyzer.calls)
}

func TestAnalyze_MissingFieldIs400(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	body := validBody()
	body["startCity"] = "   "

	w := do(f.router, http.MethodPost, "/api/analyses", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "startCity")
}

func TestAnalyze_InvalidJSONIs400(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_ProviderFailureIs502WithGenericMessage(t *testing.T) {
	failing := &stubAnalyzer{err: errors.New("quota exceeded upstream")}
	f := newFixture(t, analysis.Deps{Analyzer: failing}, nil)

	w := do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, analysis.FailureMessage, decodeError(t, w))
	assert.NotContains(t, w.Body.String(), "upstream")
}

func TestAnalyze_QuotaExhaustedIs429(t *testing.T) {
	f := newFixture(t, analysis.Deps{Quota: denyQuota{}}, nil)
	w := do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, f.analyzer.calls)
}

func TestLatest_HoldsOnlyLastSuccess(t *testing.T) {
	a := &stubAnalyzer{result: sampleAnalysis()}
	f := newFixture(t, analysis.Deps{Analyzer: a}, nil)

	w := do(f.router, http.MethodGet, "/api/analyses/latest", nil, "c1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	require.Equal(t, http.StatusCreated, w.Code)
	var first analysis.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	a.err = errors.New("boom")
	w = do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	require.Equal(t, http.StatusBadGateway, w.Code)

	w = do(f.router, http.MethodGet, "/api/analyses/latest", nil, "c1")
	require.Equal(t, http.StatusOK, w.Code)
	var latest analysis.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, first.ID, latest.ID)

	w = do(f.router, http.MethodGet, "/api/analyses/latest", nil, "other")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fixedQuota struct{ left int }

func (q fixedQuota) UseToken(context.Context, string) error { return nil }

func (q fixedQuota) Remaining(context.Context, string) (int, error) { return q.left, nil }

func TestQuota(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	w := do(f.router, http.MethodGet, "/api/quota", nil, "c1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f = newFixture(t, analysis.Deps{Quota: fixedQuota{left: 42}}, nil)
	w = do(f.router, http.MethodGet, "/api/quota", nil, "c1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"remaining":42}`, w.Body.String())
}

func TestHistoryDisabledIs503(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	w := do(f.router, http.MethodGet, "/api/analyses", nil, "c1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(f.router, http.MethodGet, "/api/analyses/0b3f5a2e-1111-4c1d-9a3e-000000000000", nil, "c1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHistoryAndReports(t *testing.T) {
	f := newFixture(t, analysis.Deps{History: &memoryHistory{}}, nil)

	w := do(f.router, http.MethodPost, "/api/analyses", validBody(), "c1")
	require.Equal(t, http.StatusCreated, w.Code)
	var rec analysis.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	w = do(f.router, http.MethodGet, "/api/analyses?limit=5", nil, "c1")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Analyses []analysis.Record `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Analyses, 1)
	assert.Equal(t, rec.ID, list.Analyses[0].ID)

	w = do(f.router, http.MethodGet, "/api/analyses?limit=abc", nil, "c1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(f.router, http.MethodGet, "/api/analyses/"+rec.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(f.router, http.MethodGet, "/api/analyses/"+rec.ID+"/report.md", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "Frango Assado")

	w = do(f.router, http.MethodGet, "/api/analyses/"+rec.ID+"/report.pdf", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sao-paulo-sp")

	w = do(f.router, http.MethodGet, "/api/analyses/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaces(t *testing.T) {
	f := newFixture(t, analysis.Deps{}, nil)
	w := do(f.router, http.MethodGet, "/api/places/cities?q=Campinas", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f = newFixture(t, analysis.Deps{}, stubPlaces{})
	w = do(f.router, http.MethodGet, "/api/places/cities?q=Campinas", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Campinas, SP, Brasil")

	w = do(f.router, http.MethodGet, "/api/places/cities?q=", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())
}
