package classifier

import (
	"context"

	"classifyapi/internal/model"
)

// Classifier is the single call boundary to the image-classification
// capability. Implementations may be slow (seconds) and resource-heavy;
// callers must treat Classify as blocking.
type Classifier interface {
	// Classify predicts the top label for the image stored at imagePath.
	Classify(ctx context.Context, imagePath string) (*model.Prediction, error)
}
