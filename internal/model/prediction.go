package model

// Prediction is the outcome of classifying one uploaded image.
// This is a pure domain model with no framework-specific dependencies;
// it can be used across layers (HTTP, service, classifier) freely.
// Probability is expressed in percent, in the closed range [0, 100].
type Prediction struct {
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
}
