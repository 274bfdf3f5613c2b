package bootstrap

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/store"
)

func testRouter(t *testing.T, trainRate int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemoryStore()
	bundles := artifact.NewStore(filepath.Join(t.TempDir(), "model.json"))
	cfg := service.DefaultTrainingConfig()
	cfg.Epochs = 2

	return BuildRouter(RouterDeps{
		ServiceName:        "price-bati",
		Version:            "test",
		Store:              mem,
		Bundles:            bundles,
		Trainer:            service.NewTrainingService(mem, bundles, cfg),
		Seeder:             service.NewSeedService(mem, rand.New(rand.NewSource(1))),
		SeedMax:            1000,
		TrainRatePerMinute: trainRate,
	})
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestBuildRouter_Routes(t *testing.T) {
	r := testRouter(t, 0)

	rr := get(r, "/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"model":"untrained"`)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	assert.Equal(t, http.StatusOK, get(r, "/items").Code)

	rr = get(r, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pricebati_http_requests_total")
}

func TestBuildRouter_RequestIDEcho(t *testing.T) {
	r := testRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
}

func TestBuildRouter_TrainIsRateLimited(t *testing.T) {
	r := testRouter(t, 1)

	first := get(r, "/train")
	// empty collection: the run is attempted and fails
	assert.Equal(t, http.StatusInternalServerError, first.Code)

	second := get(r, "/train")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// other routes are unaffected
	assert.Equal(t, http.StatusOK, get(r, "/items").Code)
}

func TestBuildRouter_CORS(t *testing.T) {
	r := testRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
