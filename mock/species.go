package mock

import (
	"context"

	"github.com/fwojciec/antmaster"
)

var _ antmaster.SpeciesService = (*SpeciesService)(nil)

// SpeciesService is a mock implementation of antmaster.SpeciesService.
type SpeciesService struct {
	FindAllSpeciesFn  func(ctx context.Context) ([]*antmaster.Species, error)
	FindDescriptionFn func(ctx context.Context, speciesID int) (*antmaster.Description, error)
	CreateSpeciesFn   func(ctx context.Context, species *antmaster.Species) error
	FindSpeciesByIDFn func(ctx context.Context, id int) (*antmaster.Species, error)
	FindSpeciesFn     func(ctx context.Context, filter antmaster.SpeciesFilter) ([]*antmaster.Species, error)
	UpdateSpeciesFn   func(ctx context.Context, id int, upd antmaster.SpeciesUpdate) (*antmaster.Species, error)
	DeleteSpeciesFn   func(ctx context.Context, id int) error
	SetDescriptionFn  func(ctx context.Context, desc *antmaster.Description) error
}

func (s *SpeciesService) FindAllSpecies(ctx context.Context) ([]*antmaster.Species, error) {
	return s.FindAllSpeciesFn(ctx)
}

func (s *SpeciesService) FindDescription(ctx context.Context, speciesID int) (*antmaster.Description, error) {
	return s.FindDescriptionFn(ctx, speciesID)
}

func (s *SpeciesService) CreateSpecies(ctx context.Context, species *antmaster.Species) error {
	return s.CreateSpeciesFn(ctx, species)
}

func (s *SpeciesService) FindSpeciesByID(ctx context.Context, id int) (*antmaster.Species, error) {
	return s.FindSpeciesByIDFn(ctx, id)
}

func (s *SpeciesService) FindSpecies(ctx context.Context, filter antmaster.SpeciesFilter) ([]*antmaster.Species, error) {
	return s.FindSpeciesFn(ctx, filter)
}

func (s *SpeciesService) UpdateSpecies(ctx context.Context, id int, upd antmaster.SpeciesUpdate) (*antmaster.Species, error) {
	return s.UpdateSpeciesFn(ctx, id, upd)
}

func (s *SpeciesService) DeleteSpecies(ctx context.Context, id int) error {
	return s.DeleteSpeciesFn(ctx, id)
}

func (s *SpeciesService) SetDescription(ctx context.Context, desc *antmaster.Description) error {
	return s.SetDescriptionFn(ctx, desc)
}
