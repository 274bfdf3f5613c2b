package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Store     string    `json:"store"`
	Model     string    `json:"model"`
	ModelRun  string    `json:"model_run_id,omitempty"`
}

// Pinger is satisfied by every record store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BundleLoader is satisfied by *artifact.Store.
type BundleLoader interface {
	Load() (*artifact.Bundle, error)
}

type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
	bundles     BundleLoader
}

// NewHealthHandler builds the handler. store and bundles may be nil, in which
// case the matching check reports "disabled".
func NewHealthHandler(serviceName, version string, store Pinger, bundles BundleLoader) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
		bundles:     bundles,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus := "disabled"
	if h.store != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.store.Ping(pingCtx); err != nil {
			storeStatus = "down"
		} else {
			storeStatus = "up"
		}
	}

	modelStatus := "disabled"
	var runID string
	if h.bundles != nil {
		b, err := h.bundles.Load()
		switch {
		case err == nil:
			modelStatus = "ready"
			runID = b.RunID
		case errors.Is(err, artifact.ErrArtifactMissing):
			modelStatus = "untrained"
		default:
			modelStatus = "corrupt"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Store:     storeStatus,
		Model:     modelStatus,
		ModelRun:  runID,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
