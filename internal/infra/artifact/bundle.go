package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// FeatureNames is the canonical feature order the bundled model was trained
// on. The derived vector must hand features to the model in exactly this
// order; the bundle's own feature list is cross-checked against it at load.
var FeatureNames = []string{
	"temple_encoded",
	"month",
	"day",
	"day_of_week",
	"day_of_year",
	"is_weekend",
	"is_vacation",
	"is_shravan",
	"moon_encoded",
	"temperature_c",
	"rain_flag",
}

// Bundle is the deserialized model artifact: the trained regressor plus the
// categorical encoders and feature ordering it was fitted with. Built once at
// startup and read-only afterwards.
type Bundle struct {
	Model         Model
	TempleEncoder *LabelEncoder
	MoonEncoder   *LabelEncoder
	Features      []string
}

type bundleFile struct {
	Model         json.RawMessage `json:"model"`
	TempleEncoder *LabelEncoder   `json:"temple_encoder"`
	MoonEncoder   *LabelEncoder   `json:"moon_encoder"`
	Features      []string        `json:"features"`
}

// Load reads and validates the artifact at path. Any failure is fatal to
// startup: the encoders and feature order must match the model exactly, and a
// half-initialized predictor is worse than no service at all.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, fmt.Sprintf("read model artifact %s", path), err)
	}
	return Decode(data)
}

// Decode parses an artifact bundle from raw bytes.
func Decode(data []byte) (*Bundle, error) {
	var file bundleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, "parse model artifact", err)
	}
	if err := validateBundle(&file); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, "invalid model artifact", err)
	}
	model, err := decodeModel(file.Model, len(file.Features))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, "invalid model artifact", err)
	}
	return &Bundle{
		Model:         model,
		TempleEncoder: file.TempleEncoder,
		MoonEncoder:   file.MoonEncoder,
		Features:      file.Features,
	}, nil
}

func validateBundle(file *bundleFile) error {
	if len(file.Model) == 0 {
		return fmt.Errorf("missing model")
	}
	if file.TempleEncoder == nil || len(file.TempleEncoder.Classes) == 0 {
		return fmt.Errorf("temple encoder vocabulary is empty")
	}
	if file.MoonEncoder == nil || len(file.MoonEncoder.Classes) == 0 {
		return fmt.Errorf("moon encoder vocabulary is empty")
	}
	if len(file.Features) != len(FeatureNames) {
		return fmt.Errorf("artifact lists %d features, expected %d", len(file.Features), len(FeatureNames))
	}
	for i, name := range FeatureNames {
		if file.Features[i] != name {
			return fmt.Errorf("feature %d is %q, expected %q", i, file.Features[i], name)
		}
	}
	return nil
}
