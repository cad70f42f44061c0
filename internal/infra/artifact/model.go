package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Model is the inference contract of the bundled regressor. The input is the
// raw feature vector in the bundle's canonical order.
type Model interface {
	Predict(features []float64) (float64, error)
	Kind() string
}

const (
	modelKindLinear = "linear"
	modelKindGBDT   = "gbdt"
)

// LinearModel evaluates intercept + coefficients · features.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m *LinearModel) Kind() string { return modelKindLinear }

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(m.Coefficients), len(features))
	}
	sum := m.Intercept
	for i, coef := range m.Coefficients {
		sum += coef * features[i]
	}
	return sum, nil
}

// Tree is one regression tree dumped as flat node arrays, the way the
// training pipeline exports sklearn estimators. Leaves are marked with -1
// in both child arrays.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) evaluate(features []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] >= 0 {
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// GBDTModel sums shrunken tree outputs on top of a base score.
type GBDTModel struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`

	featureCount int
}

func (m *GBDTModel) Kind() string { return modelKindGBDT }

func (m *GBDTModel) Predict(features []float64) (float64, error) {
	if m.featureCount > 0 && len(features) != m.featureCount {
		return 0, fmt.Errorf("gbdt model expects %d features, got %d", m.featureCount, len(features))
	}
	sum := m.BaseScore
	for i := range m.Trees {
		sum += m.LearningRate * m.Trees[i].evaluate(features)
	}
	return sum, nil
}

func (m *GBDTModel) validate(featureCount int) error {
	if len(m.Trees) == 0 {
		return errors.New("gbdt model has no trees")
	}
	if m.LearningRate == 0 {
		return errors.New("gbdt model learning_rate cannot be zero")
	}
	for i := range m.Trees {
		t := &m.Trees[i]
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d has inconsistent node arrays", i)
		}
		for node := 0; node < n; node++ {
			left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
			if (left >= 0) != (right >= 0) {
				return fmt.Errorf("tree %d node %d mixes leaf and split children", i, node)
			}
			if left >= n || right >= n {
				return fmt.Errorf("tree %d node %d references child out of range", i, node)
			}
			// Children must point forward in the flat layout or evaluate
			// would cycle forever.
			if left >= 0 && (left <= node || right <= node) {
				return fmt.Errorf("tree %d node %d references non-forward child", i, node)
			}
			if left >= 0 && (t.Feature[node] < 0 || t.Feature[node] >= featureCount) {
				return fmt.Errorf("tree %d node %d splits on feature %d outside [0,%d)", i, node, t.Feature[node], featureCount)
			}
		}
	}
	m.featureCount = featureCount
	return nil
}

type modelSpec struct {
	Type string `json:"type"`

	// linear fields
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`

	// gbdt fields
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

func decodeModel(raw json.RawMessage, featureCount int) (Model, error) {
	var spec modelSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	switch spec.Type {
	case modelKindLinear:
		if len(spec.Coefficients) != featureCount {
			return nil, fmt.Errorf("linear model has %d coefficients for %d features", len(spec.Coefficients), featureCount)
		}
		return &LinearModel{Intercept: spec.Intercept, Coefficients: spec.Coefficients}, nil
	case modelKindGBDT:
		model := &GBDTModel{BaseScore: spec.BaseScore, LearningRate: spec.LearningRate, Trees: spec.Trees}
		if err := model.validate(featureCount); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", spec.Type)
	}
}
