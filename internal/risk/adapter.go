package risk

import (
	"errors"
	"os"
	"sync"

	logx "github.com/medicore-agent-poc/server/pkg/logger"
)

// ErrModelUnavailable reports that no trained artifact is loaded and the
// caller should take the rule-based branch. It is informational, never fatal.
var ErrModelUnavailable = errors.New("risk model unavailable")

// AdapterState is the explicit lifecycle of the model adapter.
type AdapterState int

const (
	StateUnloaded AdapterState = iota
	StateLoaded
	StateUnavailable
)

func (s AdapterState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unloaded"
	}
}

// ModelPort is what the assessment service needs from a model source.
// Implementations must distinguish "no model" (ErrModelUnavailable) from a
// transient per-call failure so the caller can branch without guessing.
type ModelPort interface {
	Predict(vec [FeatureCount]float64) (label int, probability float64, err error)
	State() AdapterState
}

// ModelAdapter owns the lazily-loaded, optionally absent trained classifier.
// The load happens at most once per process (single-flight); once it fails
// the adapter stays unavailable for the rest of the process lifetime and
// every Predict call reports ErrModelUnavailable.
type ModelAdapter struct {
	path string

	once  sync.Once
	mu    sync.RWMutex
	state AdapterState
	model Classifier
}

// NewModelAdapter creates an adapter for the artifact at path. Nothing is
// loaded until the first Predict or State call.
func NewModelAdapter(path string) *ModelAdapter {
	return &ModelAdapter{path: path, state: StateUnloaded}
}

// NewStubAdapter wraps an in-memory classifier, bypassing the filesystem.
// Intended for tests and for callers that build models programmatically.
func NewStubAdapter(c Classifier) *ModelAdapter {
	a := &ModelAdapter{state: StateLoaded, model: c}
	a.once.Do(func() {})
	return a
}

func (a *ModelAdapter) ensureLoaded() {
	a.once.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		if a.path == "" {
			logx.Info().Msg("no risk model path configured; using rule-based assessment")
			a.state = StateUnavailable
			return
		}

		model, err := LoadArtifact(a.path)
		if err != nil {
			if os.IsNotExist(err) {
				logx.Info().Str("path", a.path).Msg("risk model artifact not found; using rule-based assessment")
			} else {
				logx.Warn().Err(err).Str("path", a.path).Msg("failed to load risk model artifact; using rule-based assessment")
			}
			a.state = StateUnavailable
			return
		}

		a.model = model
		a.state = StateLoaded
		_, probabilistic := model.(ProbabilisticClassifier)
		logx.Info().
			Str("path", a.path).
			Bool("probabilistic", probabilistic).
			Msg("risk model artifact loaded")
	})
}

// State reports the adapter lifecycle state, triggering the load on first use.
func (a *ModelAdapter) State() AdapterState {
	a.ensureLoaded()
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Predict runs the loaded classifier over the feature vector. A label-only
// artifact reports probability 0.5 regardless of label. Errors from the
// classifier itself are transient: they apply to this call only and do not
// change the adapter state.
func (a *ModelAdapter) Predict(vec [FeatureCount]float64) (int, float64, error) {
	a.ensureLoaded()
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.state != StateLoaded {
		return 0, 0, ErrModelUnavailable
	}

	label, err := a.model.Predict(vec)
	if err != nil {
		return 0, 0, err
	}

	probability := 0.5
	if pc, ok := a.model.(ProbabilisticClassifier); ok {
		probs, err := pc.PredictProba(vec)
		if err != nil {
			return 0, 0, err
		}
		probability = probs[1]
	}
	return label, probability, nil
}

var _ ModelPort = (*ModelAdapter)(nil)
