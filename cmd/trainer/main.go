package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"icsbagging/internal/combination"
	"icsbagging/internal/config"
	"icsbagging/internal/data"
	"icsbagging/internal/ics"
	"icsbagging/internal/metrics"
	"icsbagging/internal/models"
	"icsbagging/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	logger := utils.Logger()
	defer logger.Sync()

	cfgPath := flag.String("config", "", "YAML config file")
	source := flag.String("source", "", "Data source: expenses|blobs|csv")
	dataPath := flag.String("data", "", "CSV path for the csv source")
	k := flag.Int("k", 0, "Candidates per round")
	nClassifiers := flag.Int("n_classifiers", 0, "Final ensemble size")
	alpha := flag.Float64("alpha", -1, "AUC weight in the fitness score")
	sampler := flag.String("sampler", "", "Resampling: bootstrap|smote")
	metric := flag.String("diversity", "", "Diversity metric: e|kw|q|p|disagreement|agreement|df")
	algo := flag.String("algo", "", "Base classifier: tree|stump|forest|bagging")
	seed := flag.Int64("seed", 0, "Ensemble seed (0 keeps the config value)")
	exportCsv := flag.String("export_csv", "", "Write the loaded dataset as label-first CSV")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	overlay(&cfg, *source, *dataPath, *k, *nClassifiers, *alpha, *sampler, *metric, *algo, *seed)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	ds, err := cfg.Data.Load()
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	if *exportCsv != "" {
		if err := data.WriteCSV(*exportCsv, ds); err != nil {
			logger.Fatal("Failed to export dataset", zap.Error(err))
		}
		logger.Info("Dataset exported", zap.String("csv", *exportCsv), zap.Int("rows", ds.Len()))
	}
	pos := cfg.Ensemble.PositiveLabel
	logger.Info("Class distribution",
		zap.String("source", cfg.Data.Source),
		zap.Int("positive", ds.Count(pos)),
		zap.Int("negative", ds.Len()-ds.Count(pos)),
	)

	rng := rand.New(rand.NewSource(cfg.Data.Seed))
	train, test := data.StratifiedSplit(ds, cfg.Data.TrainFrac, rng)

	factory, err := models.NewFactory(cfg.Model)
	if err != nil {
		logger.Fatal("Failed to build classifier factory", zap.Error(err))
	}
	builder, err := ics.New(cfg.Ensemble, factory, logger)
	if err != nil {
		logger.Fatal("Failed to build ensemble builder", zap.Error(err))
	}
	if cfg.Data.ValidationFrac > 0 {
		var val data.Dataset
		train, val = data.StratifiedSplit(train, 1-cfg.Data.ValidationFrac, rng)
		if err := builder.SetValidation(val.X, val.Y); err != nil {
			logger.Fatal("Invalid validation set", zap.Error(err))
		}
		logger.Info("Held-out validation set", zap.Int("rows", val.Len()))
	}

	if err := builder.Fit(context.Background(), train.X, train.Y); err != nil {
		logger.Fatal("Failed to fit ensemble", zap.Error(err))
	}
	pred, err := builder.Predict(test.X)
	if err != nil {
		logger.Fatal("Failed to predict", zap.Error(err))
	}
	prec, rec, f1 := metrics.PRF1(test.Y, pred, pos)
	auc, err := metrics.AUC(test.Y, pred, pos)
	if err != nil {
		logger.Warn("Holdout AUC undefined", zap.Error(err))
	}
	posAcc, _ := metrics.ClassAccuracy(test.Y, pred, pos)
	voteROC, votePR := voteCurves(builder, test, pos)
	logger.Info("Holdout metrics",
		zap.Int("ensemble_size", builder.Ensemble().Len()),
		zap.Float64("accuracy", metrics.Accuracy(test.Y, pred)),
		zap.Float64("positive_accuracy", posAcc),
		zap.Float64("f1", f1),
		zap.Float64("precision", prec),
		zap.Float64("recall", rec),
		zap.Float64("roc_auc", auc),
		zap.Float64("vote_roc_auc", voteROC),
		zap.Float64("vote_pr_auc", votePR),
	)

	sizes, aucs := prefixAUC(builder, test, cfg.Ensemble)
	rounds := builder.Rounds()
	if err := writeRoundsCSV(cfg.Output.RoundsCSV, rounds, aucs); err != nil {
		logger.Warn("Failed to write rounds CSV", zap.Error(err))
	}
	if err := plotRounds(cfg.Output.CurvePNG, sizes, rounds, aucs); err != nil {
		logger.Warn("Failed to write rounds PNG", zap.Error(err))
	} else {
		logger.Info("Round curve written", zap.String("png", cfg.Output.CurvePNG), zap.String("csv", cfg.Output.RoundsCSV))
	}
	fmt.Println("Ensemble:", builder.Ensemble().Len(), "members")
}

func overlay(cfg *config.Config, source, path string, k, n int, alpha float64, sampler, metric, algo string, seed int64) {
	if source != "" {
		cfg.Data.Source = source
	}
	if path != "" {
		cfg.Data.Path = path
	}
	if k > 0 {
		cfg.Ensemble.K = k
	}
	if n > 0 {
		cfg.Ensemble.NClassifiers = n
	}
	if alpha >= 0 {
		cfg.Ensemble.Alpha = alpha
	}
	if sampler != "" {
		cfg.Ensemble.Sampler = sampler
	}
	if metric != "" {
		cfg.Ensemble.DiversityMetric = metric
	}
	if algo != "" {
		cfg.Model.Algorithm = algo
	}
	if seed != 0 {
		cfg.Ensemble.Seed = seed
	}
}

// voteCurves ranks test rows by the share of members voting positive and
// returns the ROC and PR areas of that ranking.
func voteCurves(b *ics.Builder, test data.Dataset, positive int) (float64, float64) {
	share := b.Ensemble().VoteShare(test.X, positive)
	truth := make([]bool, test.Len())
	for i, y := range test.Y {
		truth[i] = y == positive
	}
	roc, _ := metrics.ROCAUC(truth, share)
	return roc, metrics.PRAUC(truth, share)
}

// prefixAUC scores the first s members on the test set for every s, reusing a
// single pass of member predictions.
func prefixAUC(b *ics.Builder, test data.Dataset, cfg ics.Config) ([]int, []float64) {
	comb, err := combination.New(cfg.CombinationRule)
	if err != nil {
		return nil, nil
	}
	out := b.Ensemble().Output(test.X)
	L := b.Ensemble().Len()
	sizes := make([]int, L)
	aucs := make([]float64, L)
	for s := 1; s <= L; s++ {
		prefix := make([][]int, len(out))
		for i := range out {
			prefix[i] = out[i][:s]
		}
		auc, _ := metrics.AUC(test.Y, comb.Combine(prefix), cfg.PositiveLabel)
		sizes[s-1] = s
		aucs[s-1] = auc
	}
	return sizes, aucs
}

func writeRoundsCSV(path string, rounds []ics.Round, aucs []float64) error {
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
	if err := w.Write([]string{"round", "positive_prob", "selected", "best_score", "mean_score", "score_stddev", "test_auc"}); err != nil {
		return err
	}
	for i, r := range rounds {
		testAUC := ""
		if i < len(aucs) {
			testAUC = fmt.Sprintf("%.6f", aucs[i])
		}
		rec := []string{
			strconv.Itoa(r.Index),
			fmt.Sprintf("%.6f", r.PositiveProb),
			strconv.Itoa(r.Selected),
			fmt.Sprintf("%.6f", r.BestScore),
			fmt.Sprintf("%.6f", r.MeanScore),
			fmt.Sprintf("%.6f", r.StdDev),
			testAUC,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func plotRounds(path string, sizes []int, rounds []ics.Round, aucs []float64) error {
	p := plot.New()
	p.Title.Text = "Ensemble growth"
	p.X.Label.Text = "Ensemble size"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	fitness := make(plotter.XYs, 0, len(rounds))
	bias := make(plotter.XYs, 0, len(rounds))
	for _, r := range rounds {
		bias = append(bias, plotter.XY{X: float64(r.Index + 1), Y: r.PositiveProb})
		if r.Index > 0 {
			fitness = append(fitness, plotter.XY{X: float64(r.Index + 1), Y: r.BestScore})
		}
	}
	test := make(plotter.XYs, len(sizes))
	for i := range sizes {
		test[i].X = float64(sizes[i])
		test[i].Y = aucs[i]
	}
	series := []interface{}{"Positive draw prob", bias}
	if len(fitness) > 0 {
		series = append(series, "Best fitness", fitness)
	}
	if len(test) > 0 {
		series = append(series, "Test AUC", test)
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
