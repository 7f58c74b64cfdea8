package comparables

// Listing is a reference market listing indexed by its technical feature
// vector. Listings are catalog data, not past predictions.
type Listing struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	MileageKM int       `json:"mileage_km"`
	Price     float64   `json:"price"`
	Vector    []float64 `json:"-"`
}

// Match is a single nearest-listing search hit.
type Match struct {
	Listing Listing `json:"listing"`
	Score   float32 `json:"score"`
}
