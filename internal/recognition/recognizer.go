// Package recognition turns a dish photo into a dish label through a remote recognition service.
package recognition

import (
	"context"
	"errors"
)

var (
	// ErrNothingRecognized is returned when the service answered but recognized no dish.
	ErrNothingRecognized = errors.New("no dish recognized")
	// ErrRecognitionFailed wraps transport, status and payload failures.
	ErrRecognitionFailed = errors.New("dish recognition failed")
)

// Dish is the top recognition result. FoodFamily may be empty.
type Dish struct {
	Name       string `json:"dish"`
	FoodFamily string `json:"food_family,omitempty"`
}

// Term returns the food family when present, otherwise the dish name.
func (d Dish) Term() string {
	if d.FoodFamily != "" {
		return d.FoodFamily
	}
	return d.Name
}

// Recognizer identifies the dish in an image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Dish, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, image []byte) (Dish, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (Dish, error) {
	return f(ctx, image)
}
