package chatbot

// Config holds runtime knobs for the chat service.
type Config struct {
	SimilarityThreshold float64
	TopRecommendations  int
}

// threshold treats non-positive values as unset; config validation rejects
// an explicit zero before it gets here.
func (c Config) threshold() float64 {
	if c.SimilarityThreshold <= 0 {
		return DefaultSimilarityThreshold
	}
	return c.SimilarityThreshold
}
