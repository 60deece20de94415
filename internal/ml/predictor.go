// Package ml serves predictions from a linear model stored as JSON on
// disk. A missing or unreadable model degrades to a fallback mode that
// always predicts zero instead of failing requests.
package ml

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Model holds the weights of a trained linear regression
type Model struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predictor evaluates the model for feature vectors
type Predictor struct {
	mu       sync.RWMutex
	model    *Model
	path     string
	fallback bool
	logger   *slog.Logger
}

// NewPredictor loads the model from path. Load failures are logged and
// put the predictor into fallback mode rather than returned as errors.
func NewPredictor(path string, logger *slog.Logger) *Predictor {
	p := &Predictor{path: path, logger: logger}

	model, err := loadModel(path)
	if err != nil {
		logger.Warn("model unavailable, predictions fall back to zero",
			"path", path,
			"error", err,
		)
		p.fallback = true
		return p
	}

	p.model = model
	logger.Info("model loaded",
		"path", path,
		"features", len(model.Coefficients),
	)
	return p
}

// loadModel reads and validates model weights from a JSON file
func loadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}
	if len(model.Coefficients) == 0 {
		return nil, fmt.Errorf("model has no coefficients")
	}
	return &model, nil
}

// Fallback reports whether the predictor runs without a loaded model
func (p *Predictor) Fallback() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fallback
}

// FeatureCount returns the number of features the model expects, or 0
// in fallback mode.
func (p *Predictor) FeatureCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return 0
	}
	return len(p.model.Coefficients)
}

// Predict evaluates the model for one feature vector. In fallback mode
// the prediction is always 0.
func (p *Predictor) Predict(features []float64) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.fallback || p.model == nil {
		return 0, nil
	}

	if len(features) != len(p.model.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d",
			len(p.model.Coefficients), len(features))
	}

	result := p.model.Intercept
	for i, f := range features {
		result += p.model.Coefficients[i] * f
	}
	return result, nil
}

// Reload re-reads the model from disk, switching out of fallback mode
// when the file has become readable.
func (p *Predictor) Reload() error {
	model, err := loadModel(p.path)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.fallback = true
		p.model = nil
		return err
	}
	p.model = model
	p.fallback = false
	return nil
}
