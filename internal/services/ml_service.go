package services

import (
	"context"
	"log/slog"
	"time"

	"datalens/internal/infrastructure"
	"datalens/internal/ml"
	"datalens/internal/store"
)

// MLService serves predictions and records them for later inspection
type MLService struct {
	predictor *ml.Predictor
	store     *store.Store
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewMLService creates the prediction service
func NewMLService(predictor *ml.Predictor, st *store.Store, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *MLService {
	return &MLService{
		predictor: predictor,
		store:     st,
		metrics:   metrics,
		logger:    logger,
	}
}

// Predict evaluates the model for a feature vector. The raw result is
// truncated to an integer, matching what clients display. Persistence
// failures are logged and ignored.
func (s *MLService) Predict(ctx context.Context, features []float64) (int, error) {
	if len(features) == 0 {
		return 0, ErrNoFeatures
	}

	start := time.Now()
	raw, err := s.predictor.Predict(features)
	if err != nil {
		s.metrics.RecordPrediction(ctx, time.Since(start), err)
		return 0, err
	}
	s.metrics.RecordPrediction(ctx, time.Since(start), nil)

	if s.store != nil {
		if _, saveErr := s.store.SavePrediction(store.PredictionRecord{
			Features: features,
			Result:   raw,
		}); saveErr != nil {
			s.logger.WarnContext(ctx, "prediction not saved", "error", saveErr)
		}
	}

	s.logger.InfoContext(ctx, "prediction served",
		"features", len(features),
		"result", raw,
		"fallback", s.predictor.Fallback(),
	)
	return int(raw), nil
}

// ModelStatus describes the loaded model for the health endpoint
type ModelStatus struct {
	Loaded       bool `json:"loaded"`
	FeatureCount int  `json:"feature_count"`
}

// Status reports whether a real model is serving predictions
func (s *MLService) Status() ModelStatus {
	return ModelStatus{
		Loaded:       !s.predictor.Fallback(),
		FeatureCount: s.predictor.FeatureCount(),
	}
}

// History lists previously served predictions
func (s *MLService) History(ctx context.Context) ([]store.PredictionRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListPredictions()
}
