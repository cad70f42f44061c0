package metrics

// TokenUsage captures embedding token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens int `json:"promptTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.TotalTokens == 0
}
