package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"icsbagging/internal/config"
	"icsbagging/internal/data"
	"icsbagging/internal/ics"
	"icsbagging/internal/metrics"
	"icsbagging/internal/models"
	"icsbagging/pkg/utils"
)

// analyzer compares ICS bagging against plain bagging of the same size over a
// growing share of the training set.
func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfgPath := flag.String("config", "", "YAML config file")
	points := flag.Int("points", 6, "Number of training sizes")
	outImg := flag.String("out_img", "data/compare.png", "Output PNG")
	outCsv := flag.String("out_csv", "data/compare.csv", "Output CSV")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	ds, err := cfg.Data.Load()
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	rng := rand.New(rand.NewSource(cfg.Data.Seed))
	train, test := data.StratifiedSplit(ds, cfg.Data.TrainFrac, rng)
	pos := cfg.Ensemble.PositiveLabel

	factory, err := models.NewFactory(cfg.Model)
	if err != nil {
		logger.Fatal("Failed to build classifier factory", zap.Error(err))
	}

	var sizes []int
	var icsAUC, bagAUC []float64
	for i := 1; i <= *points; i++ {
		frac := math.Min(0.99, float64(i)/float64(*points))
		sub, _ := data.StratifiedSplit(train, frac, rng)
		if err := sub.Validate(pos); err != nil {
			logger.Warn("Skipping training size", zap.Float64("frac", frac), zap.Error(err))
			continue
		}

		builder, err := ics.New(cfg.Ensemble, factory, logger)
		if err != nil {
			logger.Fatal("Failed to build ensemble builder", zap.Error(err))
		}
		if err := builder.Fit(context.Background(), sub.X, sub.Y); err != nil {
			logger.Fatal("Failed to fit ensemble", zap.Error(err))
		}
		pred, err := builder.Predict(test.X)
		if err != nil {
			logger.Fatal("Failed to predict", zap.Error(err))
		}
		a, ok := holdoutAUC(logger, "ics", test.Y, pred, pos)
		if !ok {
			continue
		}

		bg := models.NewBagging(rand.New(rand.NewSource(cfg.Ensemble.Seed)))
		bg.NEstimators = cfg.Ensemble.NClassifiers
		if cfg.Model.MaxDepth > 0 {
			bg.MaxDepth = cfg.Model.MaxDepth
		}
		if cfg.Model.MinSamplesSplit > 0 {
			bg.MinSamples = cfg.Model.MinSamplesSplit
		}
		if err := bg.Fit(sub.X, sub.Y); err != nil {
			logger.Fatal("Failed to fit bagging", zap.Error(err))
		}
		b, ok := holdoutAUC(logger, "bagging", test.Y, bg.Predict(test.X), pos)
		if !ok {
			continue
		}

		sizes = append(sizes, sub.Len())
		icsAUC = append(icsAUC, a)
		bagAUC = append(bagAUC, b)
		fmt.Printf("size=%d | ics_auc=%.3f | bagging_auc=%.3f\n", sub.Len(), a, b)
	}
	if len(sizes) == 0 {
		logger.Fatal("No usable training size")
	}

	if err := writeCSV(*outCsv, sizes, icsAUC, bagAUC); err != nil {
		logger.Warn("Failed to write CSV", zap.Error(err))
	}
	if err := plotCurve(*outImg, sizes, icsAUC, bagAUC); err != nil {
		logger.Warn("Failed to write PNG", zap.Error(err))
	} else {
		logger.Info("Comparison written", zap.String("png", *outImg), zap.String("csv", *outCsv))
	}
}

// holdoutAUC scores pred against y and logs why the score is undefined when it
// is, so a degenerate test split is skipped instead of plotted as zero.
func holdoutAUC(logger *zap.Logger, model string, y, pred []int, positive int) (float64, bool) {
	auc, err := metrics.AUC(y, pred, positive)
	if err != nil {
		logger.Warn("Holdout AUC undefined", zap.String("model", model), zap.Error(err))
		return 0, false
	}
	return auc, true
}

func writeCSV(path string, sizes []int, icsAUC, bagAUC []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"size", "ics_auc", "bagging_auc"}); err != nil {
		return err
	}
	for i := range sizes {
		rec := []string{strconv.Itoa(sizes[i]), fmt.Sprintf("%.6f", icsAUC[i]), fmt.Sprintf("%.6f", bagAUC[i])}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func plotCurve(path string, sizes []int, icsAUC, bagAUC []float64) error {
	p := plot.New()
	p.Title.Text = "ICS bagging vs bagging"
	p.X.Label.Text = "Training rows"
	p.Y.Label.Text = "Test AUC"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(xs []int, ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = float64(xs[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p, "ICS bagging", toXY(sizes, icsAUC), "Bagging", toXY(sizes, bagAUC)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
