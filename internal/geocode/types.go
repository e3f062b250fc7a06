package geocode

// Match is a single geocoding result with parsed coordinates.
type Match struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// nominatimResult mirrors the relevant parts of the OSM search payload.
// Nominatim serializes coordinates as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
