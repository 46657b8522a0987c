package analysis

import "context"

// Classifier scores a local media file against a set of content labels.
// An empty result map means the classifier produced nothing usable for the
// file; callers treat that as a soft failure rather than an error.
type Classifier interface {
	Classify(ctx context.Context, path string) (map[string]float64, error)
}

// Disabled returns a Classifier that scores nothing. It stands in when no
// inference endpoint is configured so the pipeline degrades instead of
// failing.
func Disabled() Classifier { return disabledClassifier{} }

type disabledClassifier struct{}

func (disabledClassifier) Classify(context.Context, string) (map[string]float64, error) {
	return map[string]float64{}, nil
}
