package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/logging"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// Handler serves the pricing endpoints. All dependencies are injected and
// the handler keeps no state between requests.
type Handler struct {
	records   RecordReader
	seeder    Seeder
	trainer   Trainer
	estimator Estimator
	bundles   BundleLoader
	seedMax   int
}

type Deps struct {
	Records   RecordReader
	Seeder    Seeder
	Trainer   Trainer
	Estimator Estimator
	Bundles   BundleLoader
	SeedMax   int
}

func New(d Deps) *Handler {
	return &Handler{
		records:   d.Records,
		seeder:    d.Seeder,
		trainer:   d.Trainer,
		estimator: d.Estimator,
		bundles:   d.Bundles,
		seedMax:   d.SeedMax,
	}
}

// ListItems returns every project record.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.records.FetchAll(c.Request.Context())
	if err != nil {
		logging.NewLogger(c.Request.Context(), "api").Error("list_items", err).Msg("fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Seed inserts num_samples synthetic records (default 1000).
func (h *Handler) Seed(c *gin.Context) {
	n := service.DefaultSeedCount
	if raw := c.Query("num_samples"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "num_samples must be a non-negative integer"})
			return
		}
		n = v
	}
	if h.seedMax > 0 && n > h.seedMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "num_samples must not exceed " + strconv.Itoa(h.seedMax)})
		return
	}

	inserted, err := h.seeder.Seed(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "inserted_count": inserted})
		return
	}

	c.JSON(http.StatusOK, SeedResponse{Status: "ok", InsertedCount: inserted})
}

// PredictProject estimates the cost of a stored project.
func (h *Handler) PredictProject(c *gin.Context) {
	projectID := c.Param("project_id")
	if strings.TrimSpace(projectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project ID is required"})
		return
	}

	rec, err := h.records.FetchOne(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	est, err := h.estimator.Estimate(c.Request.Context(), rec.SurfaceM2, rec.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, est.Cost)
}

// Estimate predicts a cost for an ad-hoc surface and project type.
func (h *Handler) Estimate(c *gin.Context) {
	surface, err := strconv.ParseFloat(c.Query("surface_m2"), 64)
	if err != nil || !(surface > 0) || math.IsInf(surface, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surface_m2 must be a positive number"})
		return
	}
	projectType := strings.TrimSpace(c.Query("type_projet"))
	if projectType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type_projet is required"})
		return
	}

	est, err := h.estimator.Estimate(c.Request.Context(), surface, projectType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, EstimateResponse{PredictedCost: est.Cost, RunID: est.RunID})
}

// Train fits a new model on the whole collection. The request blocks until
// training finishes.
func (h *Handler) Train(c *gin.Context) {
	if _, err := h.trainer.Train(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, TrainedMessage)
}

// Model describes the currently saved bundle.
func (h *Handler) Model(c *gin.Context) {
	b, err := h.bundles.Load()
	if err != nil {
		if errors.Is(err, artifact.ErrArtifactMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no trained model"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, modelInfo(b))
}
