package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/xp-tracker/logging"
	"github.com/warp/xp-tracker/pointtable"
	"github.com/warp/xp-tracker/qualification"
	"github.com/warp/xp-tracker/store/sqlite"
)

// testClock is the demo scenarios' intended "today".
var testClock = time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	handler  *Handler
	router   http.Handler
	logs     *observer.ObservedLogs
	registry *prometheus.Registry
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine, err := qualification.NewEngine(qualification.DefaultProgram())
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	reg := prometheus.NewRegistry()

	h := NewHandler(store, engine, pointtable.NewResolver(nil, nil), logging.FromZap(zap.New(core)), NewMetrics(reg, "xptracker"))
	h.Now = func() time.Time { return testClock }

	return &testEnv{
		handler:  h,
		router:   NewRouter(h, []string{"http://localhost:5173"}),
		logs:     logs,
		registry: reg,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (e *testEnv) createTraveler(t *testing.T, req CreateTravelerRequest) TravelerDTO {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/travelers", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TravelerDTO](t, rec)
}

func (e *testEnv) loadScenario(t *testing.T, id string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func warningCodes(ws []qualification.Warning) []qualification.WarningCode {
	codes := make([]qualification.WarningCode, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}
