package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/GoSim-25-26J-441/price-bati-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/artifact"
	pricinghttp "github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/http"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/predictor"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/pricing/service"
	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/store"
)

type RouterDeps struct {
	ServiceName        string
	Version            string
	CORSOrigins        []string
	Store              store.Store
	Bundles            *artifact.Store
	Trainer            *service.TrainingService
	Seeder             *service.SeedService
	SeedMax            int
	TrainRatePerMinute int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())
	r.Use(corsMiddleware(dep.CORSOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store, dep.Bundles)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pricing := pricinghttp.New(pricinghttp.Deps{
		Records:   dep.Store,
		Seeder:    dep.Seeder,
		Trainer:   dep.Trainer,
		Estimator: predictor.New(dep.Bundles),
		Bundles:   dep.Bundles,
		SeedMax:   dep.SeedMax,
	})
	pricing.Register(r, middleware.RateLimit(dep.TrainRatePerMinute))

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "X-Request-Id")
	cfg.ExposeHeaders = []string{"X-Request-Id"}
	return cors.New(cfg)
}
