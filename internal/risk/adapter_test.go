package risk

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAdapterMissingArtifactIsUnavailable(t *testing.T) {
	a := NewModelAdapter(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Equal(t, StateUnavailable, a.State())

	_, _, err := a.Predict([FeatureCount]float64{})
	assert.ErrorIs(t, err, ErrModelUnavailable)

	// unavailable is permanent: no retry on later calls
	_, _, err = a.Predict([FeatureCount]float64{})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestAdapterEmptyPathIsUnavailable(t *testing.T) {
	a := NewModelAdapter("")
	assert.Equal(t, StateUnavailable, a.State())
}

func TestAdapterLoadsLogisticArtifactFromJSON(t *testing.T) {
	path := writeArtifact(t, "model.json",
		[]byte(`{"kind":"logistic","weights":[0,0,0,0,0,0,0,0],"intercept":2.0}`))

	a := NewModelAdapter(path)
	require.Equal(t, StateLoaded, a.State())

	label, probability, err := a.Predict([FeatureCount]float64{})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.InDelta(t, 1.0/(1.0+math.Exp(-2.0)), probability, 1e-9)
}

func TestAdapterLoadsArtifactFromGobFallback(t *testing.T) {
	doc := artifactDoc{Kind: artifactKindLogistic, Weights: make([]float64, FeatureCount), Intercept: -1.5}
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&doc))
	path := writeArtifact(t, "model.gob", buf.Bytes())

	a := NewModelAdapter(path)
	require.Equal(t, StateLoaded, a.State())

	label, probability, err := a.Predict([FeatureCount]float64{})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.Less(t, probability, 0.5)
}

func TestAdapterCorruptArtifactIsUnavailable(t *testing.T) {
	path := writeArtifact(t, "model.bin", []byte("definitely not a model"))
	a := NewModelAdapter(path)
	assert.Equal(t, StateUnavailable, a.State())
}

func TestAdapterUnknownKindIsUnavailable(t *testing.T) {
	path := writeArtifact(t, "model.json", []byte(`{"kind":"forest"}`))
	a := NewModelAdapter(path)
	assert.Equal(t, StateUnavailable, a.State())
}

func TestAdapterLabelOnlyArtifactReportsFixedProbability(t *testing.T) {
	path := writeArtifact(t, "model.json",
		[]byte(`{"kind":"threshold","cutoffs":[0,140,0,0,0,30,0,0],"min_votes":1}`))

	a := NewModelAdapter(path)
	require.Equal(t, StateLoaded, a.State())

	var vec [FeatureCount]float64
	vec[FeatureGlucose] = 180
	label, probability, err := a.Predict(vec)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Equal(t, 0.5, probability, "label-only artifacts report a fixed 0.5")

	label, probability, err = a.Predict([FeatureCount]float64{})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.Equal(t, 0.5, probability)
}

type failingClassifier struct{}

func (failingClassifier) Predict([FeatureCount]float64) (int, error) {
	return 0, errors.New("backend hiccup")
}

func TestAdapterTransientErrorDoesNotChangeState(t *testing.T) {
	a := NewStubAdapter(failingClassifier{})

	_, _, err := a.Predict([FeatureCount]float64{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrModelUnavailable))
	assert.Equal(t, StateLoaded, a.State(), "a per-call failure must not demote the adapter")
}
