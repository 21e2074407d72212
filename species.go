package antmaster

import (
	"context"
	"strings"
	"time"
)

// Species represents a catalog entry identified by its binomial scientific
// name ("Genus epithet").
type Species struct {
	ID             int    `json:"id"`
	ScientificName string `json:"scientificName"`
	InfoURL        string `json:"infoUrl,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	ExternalRefID  string `json:"externalRefId,omitempty"`
}

// Genus returns the first whitespace-delimited token of the scientific name.
func (s *Species) Genus() string {
	fields := strings.Fields(s.ScientificName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HasImage reports whether the species has a non-blank image reference.
func (s *Species) HasImage() bool {
	return strings.TrimSpace(s.ImageURL) != ""
}

// Validate returns an error if the species contains invalid fields.
func (s *Species) Validate() error {
	if strings.TrimSpace(s.ScientificName) == "" {
		return Errorf(EINVALID, "species scientific name required")
	}
	return nil
}

// Description is free text about a species, usually harvested from its
// info page.
type Description struct {
	SpeciesID   int       `json:"speciesId"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Catalog is the read-only view of the species store used while answering
// queries.
type Catalog interface {
	// FindAllSpecies returns every species in the catalog.
	FindAllSpecies(ctx context.Context) ([]*Species, error)

	// FindDescription returns the stored description for a species.
	// Returns ENOTFOUND if none exists.
	FindDescription(ctx context.Context, speciesID int) (*Description, error)
}

// SpeciesService represents a service for managing the species catalog.
type SpeciesService interface {
	Catalog

	// CreateSpecies creates a new species. Returns ECONFLICT if a species
	// with the same scientific name exists.
	CreateSpecies(ctx context.Context, species *Species) error

	// FindSpeciesByID retrieves a species by ID.
	// Returns ENOTFOUND if species does not exist.
	FindSpeciesByID(ctx context.Context, id int) (*Species, error)

	// FindSpecies retrieves species matching the filter.
	FindSpecies(ctx context.Context, filter SpeciesFilter) ([]*Species, error)

	// UpdateSpecies updates an existing species.
	// Returns ENOTFOUND if species does not exist.
	UpdateSpecies(ctx context.Context, id int, upd SpeciesUpdate) (*Species, error)

	// DeleteSpecies permanently removes a species and its description.
	// Returns ENOTFOUND if species does not exist.
	DeleteSpecies(ctx context.Context, id int) error

	// SetDescription creates or replaces the description of a species.
	// Returns ENOTFOUND if species does not exist.
	SetDescription(ctx context.Context, desc *Description) error
}

// SpeciesFilter represents a filter for FindSpecies.
type SpeciesFilter struct {
	ID             *int    `json:"id"`
	ScientificName *string `json:"scientificName"`
	Genus          *string `json:"genus"`

	// WithoutDescription restricts results to species that have no
	// stored description.
	WithoutDescription bool `json:"withoutDescription"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SpeciesUpdate represents fields that can be updated on a species.
type SpeciesUpdate struct {
	InfoURL       *string `json:"infoUrl"`
	ImageURL      *string `json:"imageUrl"`
	ExternalRefID *string `json:"externalRefId"`
}
