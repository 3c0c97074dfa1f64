// Package matching computes the score and explanation for one candidate
// profile against one job posting.
package matching

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the feature weights. Weights are normalized to sum to 1;
// a non-positive sum falls back to the defaults.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}
