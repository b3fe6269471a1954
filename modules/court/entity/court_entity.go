package entity

import "github.com/gosimple/slug"

// CourtType is the category of a court.
type CourtType string

const (
	CourtTypeCovered   CourtType = "covered"
	CourtTypeUncovered CourtType = "uncovered"
)

// Court is one physical bookable court. The catalog is static configuration.
type Court struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        CourtType `json:"type"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}

func newCourt(name string, courtType CourtType, description, imageURL string) Court {
	return Court{
		ID:          slug.Make(name),
		Name:        name,
		Type:        courtType,
		Description: description,
		ImageURL:    imageURL,
	}
}

var catalog = []Court{
	newCourt("Covered Court", CourtTypeCovered,
		"Play comfortably regardless of the weather on our premium covered court.",
		"https://placehold.co/600x400.png"),
	newCourt("Uncovered Court", CourtTypeUncovered,
		"Enjoy the sunshine and fresh air on our spacious uncovered court.",
		"https://placehold.co/600x400.png"),
}

// Catalog returns all configured courts.
func Catalog() []Court {
	courts := make([]Court, len(catalog))
	copy(courts, catalog)
	return courts
}

// FindCourt looks a court up by id. Returns nil when the id is unknown.
func FindCourt(id string) *Court {
	for i := range catalog {
		if catalog[i].ID == id {
			c := catalog[i]
			return &c
		}
	}
	return nil
}
