package http

import "github.com/gin-gonic/gin"

// Register registers the pricing routes. trainMW wraps /train only.
func (h *Handler) Register(r gin.IRouter, trainMW ...gin.HandlerFunc) {
	r.GET("/items", h.ListItems)
	r.POST("/seed", h.Seed)
	r.GET("/predict/:project_id", h.PredictProject)
	r.GET("/estimate", h.Estimate)
	r.GET("/model", h.Model)
	r.GET("/train", append(trainMW, h.Train)...)
}
