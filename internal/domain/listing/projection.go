package listing

// ProjectedFields lists the stored fields a search hit exposes, in output order.
var ProjectedFields = []string{
	"name", "summary", "description", "beds", "bathrooms", "bedrooms", "amenities", "price",
}

// Projection is the public subset of a Listing returned by similarity search.
// It never carries the internal identifier.
type Projection struct {
	Name        string   `json:"name"`
	Summary     *string  `json:"summary,omitempty"`
	Description string   `json:"description"`
	Beds        int      `json:"beds"`
	Bathrooms   float64  `json:"bathrooms"`
	Bedrooms    int      `json:"bedrooms"`
	Amenities   []string `json:"amenities"`
	Price       float64  `json:"price"`
}

// Project returns the fixed public projection of l.
func (l *Listing) Project() Projection {
	amenities := l.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return Projection{
		Name:        l.Name,
		Summary:     l.Summary,
		Description: l.Description,
		Beds:        l.Beds,
		Bathrooms:   l.Bathrooms,
		Bedrooms:    l.Bedrooms,
		Amenities:   amenities,
		Price:       l.Price,
	}
}
