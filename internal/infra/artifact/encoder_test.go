package artifact

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelEncoderTransform(t *testing.T) {
	enc := &LabelEncoder{Classes: []string{"Ambaji", "Dwarka", "Somnath"}}

	code, ok := enc.Transform("Somnath")
	require.True(t, ok)
	require.Equal(t, 2, code)

	_, ok = enc.Transform("Unknown Mandir")
	require.False(t, ok)
}

func TestLabelEncoderTransformConcurrent(t *testing.T) {
	enc := &LabelEncoder{Classes: []string{"Ambaji", "Dwarka", "Pavagadh", "Somnath"}}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				code, ok := enc.Transform("Somnath")
				if !ok || code != 3 {
					t.Errorf("Transform(Somnath) = (%d, %v), want (3, true)", code, ok)
					return
				}
				if _, ok := enc.Transform("nowhere"); ok {
					t.Error("Transform(nowhere) unexpectedly found")
					return
				}
			}
		}()
	}
	wg.Wait()
}
