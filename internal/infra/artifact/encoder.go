package artifact

import "sync"

// LabelEncoder maps a fixed vocabulary of string labels onto integer codes.
// The class order is established by the training pipeline and must not change
// at serving time, because the codes are what the model was fitted against.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	once  sync.Once
	index map[string]int
}

// Transform returns the integer code for label. The second return reports
// whether the label is part of the vocabulary; unknown labels are never
// silently defaulted. Safe for concurrent use.
func (e *LabelEncoder) Transform(label string) (int, bool) {
	e.once.Do(e.buildIndex)
	code, ok := e.index[label]
	return code, ok
}

// Vocabulary returns the known labels in code order.
func (e *LabelEncoder) Vocabulary() []string {
	out := make([]string, len(e.Classes))
	copy(out, e.Classes)
	return out
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, class := range e.Classes {
		e.index[class] = i
	}
}
