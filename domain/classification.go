package domain

// ClassificationResult is the outcome of classifying a single article.
//
// Bias is always inherited from the article's source; the inference
// service's bias estimate is advisory and discarded before a result is
// constructed. Only the keyword list varies by classification path.
type ClassificationResult struct {
	Bias     Bias     `json:"bias"`
	Keywords []string `json:"keywords"`
	// Success is true when the keywords came from the inference service,
	// false when they came from the local heuristic fallback (or are empty).
	Success bool `json:"success"`
}

// FallbackResult builds the degraded result used whenever the inference
// service is unreachable, misbehaving, or returned nothing usable. The
// caller fills keywords in via the heuristic extractor afterwards.
func FallbackResult(bias Bias) ClassificationResult {
	return ClassificationResult{
		Bias:     bias,
		Keywords: []string{},
		Success:  false,
	}
}
