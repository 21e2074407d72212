package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/antmaster"
	main "github.com/fwojciec/antmaster/cmd/antmaster"
	"github.com/fwojciec/antmaster/enrich"
	"github.com/fwojciec/antmaster/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports progress and summary", func(t *testing.T) {
		t.Parallel()

		var stored []*antmaster.Description
		species := &mock.SpeciesService{
			FindSpeciesFn: func(_ context.Context, _ antmaster.SpeciesFilter) ([]*antmaster.Species, error) {
				return []*antmaster.Species{
					{ID: 1, ScientificName: "Lasius niger", InfoURL: "https://www.antwiki.org/wiki/Lasius_niger"},
					{ID: 2, ScientificName: "Lasius flavus"},
				}, nil
			},
			FindDescriptionFn: func(_ context.Context, _ int) (*antmaster.Description, error) {
				return nil, antmaster.Errorf(antmaster.ENOTFOUND, "description not found")
			},
			SetDescriptionFn: func(_ context.Context, d *antmaster.Description) error {
				stored = append(stored, d)
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Enricher: &enrich.Enricher{
				Species: species,
				Fetcher: &mock.Fetcher{
					FetchFn: func(_ context.Context, _ string) (string, error) {
						return "<html><body><p>Una hormiga negra común.</p></body></html>", nil
					},
				},
				Extractor: &mock.Extractor{
					ExtractFn: func(html string) (*antmaster.ExtractResult, error) {
						return &antmaster.ExtractResult{ContentHTML: html}, nil
					},
				},
				Converter: &mock.Converter{
					ConvertFn: func(_ string) (string, error) {
						return "Una hormiga negra común.", nil
					},
				},
				RetryDelays: []time.Duration{},
			},
		}
		require.NoError(t, (&main.EnrichCmd{}).Run(deps))

		require.Len(t, stored, 1)
		assert.Equal(t, 1, stored[0].SpeciesID)
		assert.Contains(t, stderr.String(), "[1/1] Lasius niger")
		assert.Contains(t, stdout.String(), "Updated 1, unchanged 0, skipped 1, failed 0")
	})
}
