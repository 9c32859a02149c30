package models

// ImageNearbyResult is the outcome of the image -> cuisine -> nearby pipeline.
// An empty Restaurants slice is the "no matches" outcome; Cuisines names the labels tried.
type ImageNearbyResult struct {
	Dish        string             `json:"dish"`
	FoodFamily  string             `json:"food_family,omitempty"`
	Term        string             `json:"term"`
	Cuisines    []string           `json:"cuisines"`
	Restaurants []NearbyRestaurant `json:"restaurants"`
}

// CuisineMatch is one vocabulary label with its similarity to the matched term.
type CuisineMatch struct {
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity"`
}

// Status describes the loaded state of the engine.
type Status struct {
	Restaurants         int    `json:"restaurants"`
	CuisineLabels       int    `json:"cuisine_labels"`
	Countries           int    `json:"countries"`
	EmbeddingDimensions int    `json:"embedding_dimensions"`
	EmbeddingProvider   string `json:"embedding_provider"`
}
