package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	pricinghttp "github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/http"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/predictor"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/store"
)

type fixture struct {
	router  *gin.Engine
	mem     *store.MemoryStore
	bundles *artifact.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemoryStore()
	bundles := artifact.NewStore(filepath.Join(t.TempDir(), "model.json"))

	cfg := service.DefaultTrainingConfig()
	cfg.Epochs = 3

	h := pricinghttp.New(pricinghttp.Deps{
		Records:   mem,
		Seeder:    service.NewSeedService(mem, rand.New(rand.NewSource(7))),
		Trainer:   service.NewTrainingService(mem, bundles, cfg),
		Estimator: predictor.New(bundles),
		Bundles:   bundles,
		SeedMax:   500,
	})

	router := gin.New()
	h.Register(router)
	return &fixture{router: router, mem: mem, bundles: bundles}
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func (f *fixture) insert(t *testing.T, recs ...domain.ProjectRecord) {
	t.Helper()
	for _, r := range recs {
		require.NoError(t, f.mem.Insert(context.Background(), r))
	}
}

func TestListItems(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	f.insert(t, domain.ProjectRecord{ID: "a", Type: "Neuf", SurfaceM2: 120, TotalCost: 150000})
	rr = f.do(http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":"a","type_projet":"Neuf","surface_m2":120,"cout_total":150000}]`, rr.Body.String())
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "explicit count", query: "?num_samples=25", wantStatus: http.StatusOK, wantCount: 25},
		{name: "zero", query: "?num_samples=0", wantStatus: http.StatusOK, wantCount: 0},
		{name: "not a number", query: "?num_samples=abc", wantStatus: http.StatusBadRequest},
		{name: "negative", query: "?num_samples=-3", wantStatus: http.StatusBadRequest},
		{name: "above limit", query: "?num_samples=501", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(http.MethodPost, "/seed"+tt.query)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp pricinghttp.SeedResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCount, resp.InsertedCount)

			all, err := f.mem.FetchAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, all, tt.wantCount)
		})
	}
}

func TestSeed_DefaultCountAboveLimit(t *testing.T) {
	// the default of 1000 exceeds the fixture limit of 500
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/seed")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type brokenSeeder struct{}

func (brokenSeeder) Seed(context.Context, int) (int, error) { return 4, errors.New("store down") }

func TestSeed_PartialFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := pricinghttp.New(pricinghttp.Deps{Seeder: brokenSeeder{}, SeedMax: 100})
	router := gin.New()
	h.Register(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/seed?num_samples=10", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "store down", body["error"])
	assert.Equal(t, float64(4), body["inserted_count"])
}

func TestPredict_Missing(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/predict/nope")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rr.Body.String())
}

func TestPredict_Untrained(t *testing.T) {
	f := newFixture(t)
	f.insert(t, domain.ProjectRecord{ID: "p1", Type: "Neuf", SurfaceM2: 100, TotalCost: 100000})

	rr := f.do(http.MethodGet, "/predict/p1")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTrainThenPredict(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/seed?num_samples=59")
	require.Equal(t, http.StatusOK, rr.Code)
	f.insert(t, domain.ProjectRecord{ID: "neuf-1", Type: "Neuf", SurfaceM2: 140, TotalCost: 210000})

	rr = f.do(http.MethodGet, "/train")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `"Model trained successfully!"`, rr.Body.String())

	all, err := f.mem.FetchAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, all)

	rr = f.do(http.MethodGet, "/predict/"+all[0].ID)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var cost float64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cost))
	assert.False(t, math.IsNaN(cost) || math.IsInf(cost, 0))

	t.Run("estimate", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/estimate?surface_m2=150&type_projet=Neuf")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp pricinghttp.EstimateResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.RunID)
		assert.False(t, math.IsNaN(resp.PredictedCost))
	})

	t.Run("model metadata", func(t *testing.T) {
		rr := f.do(http.MethodGet, "/model")
		require.Equal(t, http.StatusOK, rr.Code)

		var info pricinghttp.ModelInfo
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
		assert.Equal(t, artifact.FormatVersion, info.Version)
		assert.Equal(t, 60, info.Training.Records)
		assert.Len(t, info.History, 3)
		assert.NotContains(t, rr.Body.String(), "weights")
	})

	t.Run("unknown project type", func(t *testing.T) {
		f.insert(t, domain.ProjectRecord{ID: "odd", Type: "Demolition", SurfaceM2: 80, TotalCost: 90000})
		rr := f.do(http.MethodGet, "/predict/odd")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestTrain_NotEnoughRecords(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/train")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	_, err := f.bundles.Load()
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
}

func TestEstimate_BadInput(t *testing.T) {
	f := newFixture(t)
	for _, q := range []string{
		"",
		"?surface_m2=abc&type_projet=Neuf",
		"?surface_m2=-10&type_projet=Neuf",
		"?surface_m2=0&type_projet=Neuf",
		"?surface_m2=NaN&type_projet=Neuf",
		"?surface_m2=100",
	} {
		rr := f.do(http.MethodGet, "/estimate"+q)
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestModel_NoneTrained(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/model")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRegister_TrainMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := pricinghttp.New(pricinghttp.Deps{})
	router := gin.New()
	h.Register(router, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "slow down"})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/train", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
