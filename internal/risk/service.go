package risk

import (
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"

	logx "github.com/medicore-agent-poc/server/pkg/logger"
)

// lowConfidenceThreshold is the extracted-feature count below which the
// assessment message carries the limited-information qualifier.
const lowConfidenceThreshold = 3

// Assessment is the immutable result of one inference call. It is created
// once per Assess invocation and owned by the caller. Succeeded=false means
// "no assessment available", never a risk signal.
type Assessment struct {
	HasRisk     bool       `json:"has_risk"`
	Probability float64    `json:"probability"`
	Features    FeatureSet `json:"features"`
	Message     string     `json:"message"`
	Succeeded   bool       `json:"succeeded"`
}

// Service composes the extractor, imputer, model adapter and rule-based
// scorer into the single externally visible inference entry point.
type Service struct {
	model ModelPort
}

// NewService builds a Service around a caller-owned model port. Construct
// the ModelAdapter once at process start and share it; a stub port works for
// tests.
func NewService(model ModelPort) *Service {
	return &Service{model: model}
}

// Assess extracts clinical features from the message and history window and
// produces a probabilistic risk assessment. It never returns an error and
// never panics past this boundary: every failure mode degrades to a
// structured result.
func (s *Service) Assess(text string, history []*schema.Message) (out Assessment) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "risk_service").Msgf("panic recovered: %v", r)
			out = Assessment{
				Message:   fmt.Sprintf("Error in risk assessment: %v", r),
				Succeeded: false,
			}
		}
	}()

	features := Extract(text, history)
	extractedCount := features.ExtractedCount()
	vec := features.Vector(DefaultValues())

	hasRisk, probability := s.predict(features, vec)

	return Assessment{
		HasRisk:     hasRisk,
		Probability: probability,
		Features:    features,
		Message:     composeMessage(hasRisk, probability, extractedCount),
		Succeeded:   true,
	}
}

// predict routes between the trained model and the rule-based scorer. The
// model consumes the imputed vector; the rule-based scorer only ever sees
// actually extracted features. A transient model failure falls back to the
// rules for this call only and never propagates.
func (s *Service) predict(features FeatureSet, vec [FeatureCount]float64) (bool, float64) {
	label, probability, err := s.model.Predict(vec)
	if err == nil {
		return label == 1, probability
	}

	if !errors.Is(err, ErrModelUnavailable) {
		logx.Warn().Err(err).Msg("model prediction failed; falling back to rule-based scoring")
	}
	return RuleScore(features)
}

func composeMessage(hasRisk bool, probability float64, extractedCount int) string {
	var prefix string
	if extractedCount < lowConfidenceThreshold {
		prefix = fmt.Sprintf("⚠️ Limited information available. Based on %d extracted values, ", extractedCount)
	} else {
		prefix = fmt.Sprintf("Based on %d extracted medical values, ", extractedCount)
	}

	if hasRisk {
		return prefix + fmt.Sprintf(
			"there is a %.1f%% risk of diabetes. Please consult a healthcare professional for proper diagnosis.",
			probability*100,
		)
	}
	return prefix + fmt.Sprintf(
		"the diabetes risk appears low (%.1f%%). However, please consult a healthcare professional for accurate assessment.",
		probability*100,
	)
}
