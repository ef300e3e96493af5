package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
)

func testModel(t *testing.T) *model.TrainedModel {
	t.Helper()
	fields, err := domain.SchemaFields(domain.SchemaVersion1)
	require.NoError(t, err)

	n := len(fields)
	m := &model.TrainedModel{
		Version:        "v1-testartifact",
		SchemaVersion:  domain.SchemaVersion1,
		Coefficients:   make([]float64, n),
		Intercept:      -0.5,
		FeatureMeans:   make([]float64, n),
		FeatureStddevs: make([]float64, n),
		Thresholds:     domain.DefaultThresholds,
		Metadata: model.Metadata{
			TrainedAt:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			TrainingExamples:   80,
			ValidationExamples: 20,
			AUC:                0.87,
		},
	}
	for i := range m.FeatureStddevs {
		m.Coefficients[i] = 0.1 * float64(i)
		m.FeatureStddevs[i] = 1
	}
	return m
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	m := testModel(t)

	require.NoError(t, Save(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, loaded); diff != "" {
		t.Errorf("artifact changed across save/load (-saved +loaded):\n%s", diff)
	}
}

func TestSave_RejectsInvalidModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	m := testModel(t)
	m.Thresholds = domain.Thresholds{Moderate: 0.9, High: 0.5, Extreme: 0.95}

	require.Error(t, Save(path, m))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid artifact must not be written")
}

func TestSave_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, "model.json"), testModel(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "model.json", entries[0].Name())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_CorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	// Bypass Save's validation by writing directly.
	data := []byte(`{"version":"bad","schema_version":"v99"}`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}
