// Package csv reads species catalog rows from CSV files.
//
// The first record is a header. Columns are matched by name, case
// insensitively, so their order does not matter:
//
//	scientific_name  (required; aliases: name, species)
//	antwiki_url      (aliases: info_url, url)
//	photo_url        (aliases: image_url, image)
//	inaturalist_id   (aliases: external_ref_id, external_id)
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/antmaster"
)

// Column names.
const (
	ColumnName     = "scientific_name"
	ColumnInfoURL  = "antwiki_url"
	ColumnImageURL = "photo_url"
	ColumnRefID    = "inaturalist_id"
)

var aliases = map[string]string{
	"scientific_name": ColumnName,
	"scientificname":  ColumnName,
	"name":            ColumnName,
	"species":         ColumnName,
	"antwiki_url":     ColumnInfoURL,
	"info_url":        ColumnInfoURL,
	"url":             ColumnInfoURL,
	"photo_url":       ColumnImageURL,
	"image_url":       ColumnImageURL,
	"image":           ColumnImageURL,
	"inaturalist_id":  ColumnRefID,
	"external_ref_id": ColumnRefID,
	"external_id":     ColumnRefID,
}

// Reader decodes species from CSV input.
type Reader struct {
	r       *csv.Reader
	columns map[string]int
	line    int
}

// NewReader returns a Reader over comma separated input.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{r: cr}
}

// WithComma sets the field separator, for example ';'.
func (r *Reader) WithComma(c rune) *Reader {
	r.r.Comma = c
	return r
}

// Read returns the next species. Rows with a blank name are skipped.
// It returns io.EOF when the input is exhausted.
func (r *Reader) Read() (*antmaster.Species, error) {
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	for {
		record, err := r.r.Read()
		if err != nil {
			return nil, r.wrap(err)
		}
		r.line++

		s := &antmaster.Species{
			ScientificName: strings.Join(strings.Fields(r.field(record, ColumnName)), " "),
			InfoURL:        r.field(record, ColumnInfoURL),
			ImageURL:       r.field(record, ColumnImageURL),
			ExternalRefID:  r.field(record, ColumnRefID),
		}
		if s.ScientificName == "" {
			continue
		}
		return s, nil
	}
}

// ReadAll reads every remaining species.
func (r *Reader) ReadAll() ([]*antmaster.Species, error) {
	var out []*antmaster.Species
	for {
		s, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

func (r *Reader) readHeader() error {
	header, err := r.r.Read()
	if errors.Is(err, io.EOF) {
		return antmaster.Errorf(antmaster.EINVALID, "csv: missing header")
	}
	if err != nil {
		return r.wrap(err)
	}
	r.line++

	r.columns = make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := aliases[name]; ok {
			if _, dup := r.columns[col]; !dup {
				r.columns[col] = i
			}
		}
	}
	if _, ok := r.columns[ColumnName]; !ok {
		return antmaster.Errorf(antmaster.EINVALID, "csv: header has no %s column", ColumnName)
	}
	return nil
}

func (r *Reader) field(record []string, col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *Reader) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return antmaster.Errorf(antmaster.EINVALID, "csv: %v", perr)
	}
	return fmt.Errorf("csv: line %d: %w", r.line+1, err)
}
