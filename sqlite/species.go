package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/antmaster"
)

// Compile-time interface verification.
var _ antmaster.SpeciesService = (*SpeciesService)(nil)

const speciesColumns = "id, scientific_name, info_url, image_url, external_ref_id"

// SpeciesService implements antmaster.SpeciesService using SQLite.
type SpeciesService struct {
	db *DB
}

// NewSpeciesService creates a new SpeciesService.
func NewSpeciesService(db *DB) *SpeciesService {
	return &SpeciesService{db: db}
}

// CreateSpecies creates a new species and sets its ID.
func (s *SpeciesService) CreateSpecies(ctx context.Context, species *antmaster.Species) error {
	if err := species.Validate(); err != nil {
		return err
	}
	species.ScientificName = strings.Join(strings.Fields(species.ScientificName), " ")

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM species WHERE scientific_name = ?", species.ScientificName).Scan(&exists)
	if err == nil {
		return antmaster.Errorf(antmaster.ECONFLICT, "species %q already exists", species.ScientificName)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO species (scientific_name, info_url, image_url, external_ref_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, species.ScientificName, species.InfoURL, species.ImageURL, species.ExternalRefID,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	species.ID = int(id)
	return nil
}

// FindSpeciesByID retrieves a species by ID.
func (s *SpeciesService) FindSpeciesByID(ctx context.Context, id int) (*antmaster.Species, error) {
	var species antmaster.Species
	err := s.db.QueryRowContext(ctx, "SELECT "+speciesColumns+" FROM species WHERE id = ?", id).
		Scan(&species.ID, &species.ScientificName, &species.InfoURL, &species.ImageURL, &species.ExternalRefID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, antmaster.Errorf(antmaster.ENOTFOUND, "species not found")
	}
	if err != nil {
		return nil, err
	}
	return &species, nil
}

// FindAllSpecies returns the whole catalog ordered by ID.
func (s *SpeciesService) FindAllSpecies(ctx context.Context) ([]*antmaster.Species, error) {
	return s.FindSpecies(ctx, antmaster.SpeciesFilter{})
}

// FindSpecies retrieves species matching the filter, ordered by ID.
func (s *SpeciesService) FindSpecies(ctx context.Context, filter antmaster.SpeciesFilter) ([]*antmaster.Species, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + speciesColumns + " FROM species WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ScientificName != nil {
		query.WriteString(" AND scientific_name = ?")
		args = append(args, *filter.ScientificName)
	}
	if filter.Genus != nil {
		query.WriteString(" AND scientific_name LIKE ?")
		args = append(args, *filter.Genus+" %")
	}
	if filter.WithoutDescription {
		query.WriteString(" AND NOT EXISTS (SELECT 1 FROM species_descriptions d WHERE d.species_id = species.id)")
	}

	query.WriteString(" ORDER BY id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	species := []*antmaster.Species{}
	for rows.Next() {
		var sp antmaster.Species
		if err := rows.Scan(&sp.ID, &sp.ScientificName, &sp.InfoURL, &sp.ImageURL, &sp.ExternalRefID); err != nil {
			return nil, err
		}
		species = append(species, &sp)
	}

	return species, rows.Err()
}

// UpdateSpecies updates an existing species.
func (s *SpeciesService) UpdateSpecies(ctx context.Context, id int, upd antmaster.SpeciesUpdate) (*antmaster.Species, error) {
	species, err := s.FindSpeciesByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.InfoURL != nil {
		species.InfoURL = *upd.InfoURL
	}
	if upd.ImageURL != nil {
		species.ImageURL = *upd.ImageURL
	}
	if upd.ExternalRefID != nil {
		species.ExternalRefID = *upd.ExternalRefID
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE species
		SET info_url = ?, image_url = ?, external_ref_id = ?
		WHERE id = ?
	`, species.InfoURL, species.ImageURL, species.ExternalRefID, id)
	if err != nil {
		return nil, err
	}

	return species, nil
}

// DeleteSpecies permanently removes a species and its description.
func (s *SpeciesService) DeleteSpecies(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM species WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return antmaster.Errorf(antmaster.ENOTFOUND, "species not found")
	}

	return nil
}

// FindDescription returns the stored description for a species.
func (s *SpeciesService) FindDescription(ctx context.Context, speciesID int) (*antmaster.Description, error) {
	var desc antmaster.Description
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT species_id, content, content_hash, fetched_at
		FROM species_descriptions
		WHERE species_id = ?
	`, speciesID).Scan(&desc.SpeciesID, &desc.Content, &desc.ContentHash, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, antmaster.Errorf(antmaster.ENOTFOUND, "description not found")
	}
	if err != nil {
		return nil, err
	}

	if desc.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &desc, nil
}

// SetDescription creates or replaces the description of a species.
func (s *SpeciesService) SetDescription(ctx context.Context, desc *antmaster.Description) error {
	if _, err := s.FindSpeciesByID(ctx, desc.SpeciesID); err != nil {
		return err
	}
	if desc.FetchedAt.IsZero() {
		desc.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO species_descriptions (species_id, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(species_id) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, desc.SpeciesID, desc.Content, desc.ContentHash, desc.FetchedAt.UTC().Format(time.RFC3339))
	return err
}
