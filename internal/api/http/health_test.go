package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/GoSim-25-26J-441/price-bati-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type loadFunc func() (*artifact.Bundle, error)

func (f loadFunc) Load() (*artifact.Bundle, error) { return f() }

func doHealth(t *testing.T, h *httpapi.HealthHandler, method string) (*httptest.ResponseRecorder, httpapi.HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/health", nil))

	var resp httpapi.HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	h := httpapi.NewHealthHandler("test-service", "1.0.0", nil, nil)
	rr, resp := doHealth(t, h, http.MethodGet)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "disabled", resp.Store)
	assert.Equal(t, "disabled", resp.Model)
}

func TestHealthCheck_Dependencies(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("unreachable") })

	ready := loadFunc(func() (*artifact.Bundle, error) { return &artifact.Bundle{RunID: "run-1"}, nil })
	missing := loadFunc(func() (*artifact.Bundle, error) { return nil, artifact.ErrArtifactMissing })
	corrupt := loadFunc(func() (*artifact.Bundle, error) { return nil, artifact.ErrArtifactCorrupt })

	_, resp := doHealth(t, httpapi.NewHealthHandler("s", "v", up, ready), http.MethodGet)
	assert.Equal(t, "up", resp.Store)
	assert.Equal(t, "ready", resp.Model)
	assert.Equal(t, "run-1", resp.ModelRun)

	_, resp = doHealth(t, httpapi.NewHealthHandler("s", "v", down, missing), http.MethodGet)
	assert.Equal(t, "down", resp.Store)
	assert.Equal(t, "untrained", resp.Model)

	_, resp = doHealth(t, httpapi.NewHealthHandler("s", "v", up, corrupt), http.MethodGet)
	assert.Equal(t, "corrupt", resp.Model)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := doHealth(t, httpapi.NewHealthHandler("test-service", "1.0.0", nil, nil), http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
