package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/templepass/ai-service/pkg/errors"
)

const validBundleJSON = `{
	"model": {"type": "linear", "intercept": 1000, "coefficients": [100, 10, 1, 5, 0.5, 2000, 1500, 3000, 50, 20, -500]},
	"temple_encoder": {"classes": ["Ambaji", "Dwarka", "Pavagadh", "Somnath"]},
	"moon_encoder": {"classes": ["Amavasya", "Normal", "Purnima"]},
	"features": ["temple_encoded", "month", "day", "day_of_week", "day_of_year", "is_weekend", "is_vacation", "is_shravan", "moon_encoded", "temperature_c", "rain_flag"]
}`

func TestLoad_ValidBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(validBundleJSON), 0o600))

	bundle, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "linear", bundle.Model.Kind())
	require.Equal(t, FeatureNames, bundle.Features)

	code, ok := bundle.TempleEncoder.Transform("Somnath")
	require.True(t, ok)
	require.Equal(t, 3, code)

	_, ok = bundle.TempleEncoder.Transform("Unknown Mandir")
	require.False(t, ok)

	code, ok = bundle.MoonEncoder.Transform("Normal")
	require.True(t, ok)
	require.Equal(t, 1, code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadError))
}

func TestDecode_CorruptJSON(t *testing.T) {
	_, err := Decode([]byte(`{"model": `))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadError))
}

func TestDecode_FeatureOrderMismatch(t *testing.T) {
	data := `{
		"model": {"type": "linear", "intercept": 0, "coefficients": [0,0,0,0,0,0,0,0,0,0,0]},
		"temple_encoder": {"classes": ["Somnath"]},
		"moon_encoder": {"classes": ["Normal"]},
		"features": ["month", "temple_encoded", "day", "day_of_week", "day_of_year", "is_weekend", "is_vacation", "is_shravan", "moon_encoded", "temperature_c", "rain_flag"]
	}`
	_, err := Decode([]byte(data))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadError))
	require.Contains(t, err.Error(), "temple_encoded")
}

func TestDecode_CoefficientArityMismatch(t *testing.T) {
	data := `{
		"model": {"type": "linear", "intercept": 0, "coefficients": [1, 2, 3]},
		"temple_encoder": {"classes": ["Somnath"]},
		"moon_encoder": {"classes": ["Normal"]},
		"features": ["temple_encoded", "month", "day", "day_of_week", "day_of_year", "is_weekend", "is_vacation", "is_shravan", "moon_encoded", "temperature_c", "rain_flag"]
	}`
	_, err := Decode([]byte(data))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLoadError))
}

func TestDecode_EmptyVocabulary(t *testing.T) {
	data := `{
		"model": {"type": "linear", "intercept": 0, "coefficients": [0,0,0,0,0,0,0,0,0,0,0]},
		"temple_encoder": {"classes": []},
		"moon_encoder": {"classes": ["Normal"]},
		"features": ["temple_encoded", "month", "day", "day_of_week", "day_of_year", "is_weekend", "is_vacation", "is_shravan", "moon_encoded", "temperature_c", "rain_flag"]
	}`
	_, err := Decode([]byte(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "temple encoder")
}

func TestLinearModel_Predict(t *testing.T) {
	model := &LinearModel{Intercept: 10, Coefficients: []float64{2, 3}}

	got, err := model.Predict([]float64{1, 4})
	require.NoError(t, err)
	require.Equal(t, 24.0, got)

	_, err = model.Predict([]float64{1})
	require.Error(t, err)
}

func TestGBDTModel_Predict(t *testing.T) {
	// Single split on feature 0 at 0.5: left leaf 100, right leaf 200.
	tree := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -1, -1},
		Threshold:     []float64{0.5, 0, 0},
		Value:         []float64{0, 100, 200},
	}
	model := &GBDTModel{BaseScore: 50, LearningRate: 0.5, Trees: []Tree{tree, tree}}
	require.NoError(t, model.validate(2))

	got, err := model.Predict([]float64{0, 9})
	require.NoError(t, err)
	require.Equal(t, 150.0, got) // 50 + 2 * 0.5 * 100

	got, err = model.Predict([]float64{1, 9})
	require.NoError(t, err)
	require.Equal(t, 250.0, got)
}

func TestGBDTModel_ValidateRejectsBadTrees(t *testing.T) {
	model := &GBDTModel{
		BaseScore:    0,
		LearningRate: 0.1,
		Trees: []Tree{{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{5, -1, -1}, // out of range for 2 features
			Threshold:     []float64{0.5, 0, 0},
			Value:         []float64{0, 1, 2},
		}},
	}
	require.Error(t, model.validate(2))
}

func TestGBDTModel_ValidateRejectsCyclicTree(t *testing.T) {
	// Root pointing back at itself would spin evaluate forever.
	model := &GBDTModel{
		LearningRate: 0.1,
		Trees: []Tree{{
			ChildrenLeft:  []int{0, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{0, -1, -1},
			Threshold:     []float64{0.5, 0, 0},
			Value:         []float64{0, 1, 2},
		}},
	}
	err := model.validate(2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-forward child")
}
