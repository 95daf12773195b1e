package risk

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier predicts a binary risk label from the canonical feature vector.
type Classifier interface {
	Predict(vec [FeatureCount]float64) (label int, err error)
}

// ProbabilisticClassifier is a Classifier that also exposes class
// probabilities. Whether a loaded artifact supports it is decided once at
// load time, not probed per call.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(vec [FeatureCount]float64) ([2]float64, error)
}

const (
	artifactKindLogistic  = "logistic"
	artifactKindThreshold = "threshold"
)

// artifactDoc is the on-disk shape of a trained classifier. The same struct
// is used by both deserialization strategies (JSON primary, gob alternate).
type artifactDoc struct {
	Kind      string                `json:"kind"`
	Weights   []float64             `json:"weights,omitempty"`
	Intercept float64               `json:"intercept,omitempty"`
	Cutoffs   [FeatureCount]float64 `json:"cutoffs,omitempty"`
	MinVotes  int                   `json:"min_votes,omitempty"`
}

// LoadArtifact reads and deserializes a classifier from path. A JSON decode
// is attempted first; on a format error the gob encoding is tried as the
// alternate strategy. The caller decides what a missing file or a double
// decode failure means for its lifecycle.
func LoadArtifact(path string) (Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc artifactDoc
	if jsonErr := json.Unmarshal(raw, &doc); jsonErr != nil {
		dec := gob.NewDecoder(bytes.NewReader(raw))
		if gobErr := dec.Decode(&doc); gobErr != nil {
			return nil, fmt.Errorf("artifact decode: json: %v; gob: %v", jsonErr, gobErr)
		}
	}

	return buildClassifier(doc)
}

func buildClassifier(doc artifactDoc) (Classifier, error) {
	switch doc.Kind {
	case artifactKindLogistic:
		if len(doc.Weights) != FeatureCount {
			return nil, fmt.Errorf("logistic artifact: want %d weights, got %d", FeatureCount, len(doc.Weights))
		}
		var w [FeatureCount]float64
		copy(w[:], doc.Weights)
		return &logisticClassifier{weights: w, intercept: doc.Intercept}, nil
	case artifactKindThreshold:
		minVotes := doc.MinVotes
		if minVotes <= 0 {
			minVotes = 1
		}
		return &thresholdClassifier{cutoffs: doc.Cutoffs, minVotes: minVotes}, nil
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", doc.Kind)
	}
}

// logisticClassifier is the probabilistic artifact variant: a logistic
// regression over the raw feature vector.
type logisticClassifier struct {
	weights   [FeatureCount]float64
	intercept float64
}

func (c *logisticClassifier) Predict(vec [FeatureCount]float64) (int, error) {
	probs, err := c.PredictProba(vec)
	if err != nil {
		return 0, err
	}
	if probs[1] >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (c *logisticClassifier) PredictProba(vec [FeatureCount]float64) ([2]float64, error) {
	z := c.intercept
	for i, w := range c.weights {
		z += w * vec[i]
	}
	p := 1.0 / (1.0 + math.Exp(-z))
	if math.IsNaN(p) {
		return [2]float64{}, fmt.Errorf("logistic artifact produced NaN probability")
	}
	return [2]float64{1 - p, p}, nil
}

var _ ProbabilisticClassifier = (*logisticClassifier)(nil)

// thresholdClassifier is the label-only artifact variant: a bundle of
// per-feature cutoffs voting toward the positive class. It deliberately does
// not implement ProbabilisticClassifier.
type thresholdClassifier struct {
	cutoffs  [FeatureCount]float64
	minVotes int
}

func (c *thresholdClassifier) Predict(vec [FeatureCount]float64) (int, error) {
	votes := 0
	for i, cutoff := range c.cutoffs {
		if cutoff > 0 && vec[i] >= cutoff {
			votes++
		}
	}
	if votes >= c.minVotes {
		return 1, nil
	}
	return 0, nil
}

var _ Classifier = (*thresholdClassifier)(nil)
