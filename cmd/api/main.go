package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"icsbagging/internal/config"
	"icsbagging/internal/data"
	"icsbagging/internal/features"
	"icsbagging/internal/ics"
	"icsbagging/internal/models"
	"icsbagging/pkg/utils"
)

// The ensemble is trained at startup and kept in memory only.
func main() {
	_ = godotenv.Load()
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	builder, err := train(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to train ensemble", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	// Expense claims can only be scored when the ensemble was trained on
	// vectorized expenses.
	var columns []string
	if cfg.Data.Source == config.SourceExpenses {
		columns = features.Columns()
	}
	if err := newRouter(builder, os.Getenv("API_KEY"), columns).Run(":" + port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func train(cfg config.Config, logger *zap.Logger) (*ics.Builder, error) {
	ds, err := cfg.Data.Load()
	if err != nil {
		return nil, err
	}
	factory, err := models.NewFactory(cfg.Model)
	if err != nil {
		return nil, err
	}
	builder, err := ics.New(cfg.Ensemble, factory, logger)
	if err != nil {
		return nil, err
	}
	if err := builder.Fit(context.Background(), ds.X, ds.Y); err != nil {
		return nil, err
	}
	return builder, nil
}

// newRouter wires the scoring routes. columns names the feature positions when
// the ensemble was trained on expenses; nil disables expense bodies.
func newRouter(builder *ics.Builder, apiKey string, columns []string) *gin.Engine {
	h := &handler{builder: builder, columns: columns}
	r := gin.Default()
	r.GET("/ensemble", h.describe)

	api := r.Group("/")
	api.Use(apiKeyMiddleware(apiKey))
	api.POST("/predict", h.predict)
	api.POST("/batch", h.batch)
	return r
}

func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type handler struct {
	builder *ics.Builder
	columns []string
}

// predictReq carries either a raw feature vector or an expense claim.
type predictReq struct {
	Features []float64     `json:"features"`
	Expense  *data.Expense `json:"expense"`
}

type batchReq struct {
	Rows [][]float64 `json:"rows" binding:"required"`
}

func (h *handler) predict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	row := req.Features
	switch {
	case req.Expense != nil && req.Features != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "send either features or expense, not both"})
		return
	case req.Expense != nil:
		if h.columns == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ensemble was not trained on expenses"})
			return
		}
		row, _ = features.Vectorize(*req.Expense)
	case req.Features == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "features or expense is required"})
		return
	}
	labels, ok := h.run(c, [][]float64{row})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"label": labels[0], "positive": labels[0] == h.builder.Config().PositiveLabel})
}

func (h *handler) batch(c *gin.Context) {
	var req batchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	labels, ok := h.run(c, req.Rows)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

// run checks the rows against the training width and predicts. It writes the
// error response itself and reports whether the caller should continue.
func (h *handler) run(c *gin.Context, rows [][]float64) ([]int, bool) {
	width := h.builder.Width()
	for _, r := range rows {
		if len(r) != width {
			resp := gin.H{"error": "wrong feature count", "want": width, "got": len(r)}
			if h.columns != nil {
				resp["columns"] = h.columns
			}
			c.JSON(http.StatusBadRequest, resp)
			return nil, false
		}
	}
	labels, err := h.builder.Predict(rows)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return nil, false
	}
	return labels, true
}

func (h *handler) describe(c *gin.Context) {
	rounds := h.builder.Rounds()
	cfg := h.builder.Config()
	size := 0
	if e := h.builder.Ensemble(); e != nil {
		size = e.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"state":            h.builder.State().String(),
		"size":             size,
		"k":                cfg.K,
		"alpha":            cfg.Alpha,
		"diversity_metric": cfg.DiversityMetric,
		"sampler":          cfg.Sampler,
		"rounds":           rounds,
	})
}
