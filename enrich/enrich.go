// Package enrich fills in species descriptions and images from each
// species' info page.
package enrich

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/antmaster"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched in parallel.
const DefaultConcurrency = 4

// Enricher fetches info pages and stores their main content as species
// descriptions. Fallback, Images and TokenCounter are optional.
type Enricher struct {
	Species      antmaster.SpeciesService
	Fetcher      antmaster.Fetcher
	Extractor    antmaster.Extractor
	Fallback     antmaster.Extractor
	Converter    antmaster.Converter
	Images       antmaster.ImageFinder
	TokenCounter antmaster.TokenCounter
	RateLimiter  antmaster.DomainLimiter
	Concurrency  int
	RetryDelays  []time.Duration
	Logger       LogFunc

	// Force refetches species that already have a description.
	Force bool

	// Limit caps how many species are processed; zero means no cap.
	Limit int

	// Now returns the fetch timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of an enrichment run.
type Result struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
	Images    int
	Bytes     int
	Tokens    int
}

// ProgressEvent reports progress during an enrichment run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Species   string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)

type pageResult struct {
	position int
	species  *antmaster.Species
	markdown string
	hash     string
	imageURL string
	err      error
}

// Enrich processes every species with an info URL that lacks a description
// (or every one, with Force). Pages are fetched concurrently; results are
// stored sequentially in catalog order.
func (e *Enricher) Enrich(ctx context.Context, progress ProgressFunc) (*Result, error) {
	all, err := e.Species.FindSpecies(ctx, antmaster.SpeciesFilter{
		WithoutDescription: !e.Force,
		Limit:              e.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find species: %w", err)
	}

	var result Result
	var targets []*antmaster.Species
	for _, s := range all {
		if s.InfoURL == "" {
			result.Skipped++
			continue
		}
		targets = append(targets, s)
	}

	total := len(targets)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, s := range targets {
			g.Go(func() error {
				resultCh <- e.processSpecies(gctx, i, s)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]pageResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			Species:   r.species.ScientificName,
		}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		}
		if progress != nil {
			progress(event)
		}
	}

	for _, r := range results {
		if r.err != nil {
			result.Failed++
			continue
		}
		if err := e.store(ctx, r, &result); err != nil {
			result.Failed++
			if e.Logger != nil {
				e.Logger("store %s: %v", r.species.ScientificName, err)
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &result, ctx.Err()
}

func (e *Enricher) processSpecies(ctx context.Context, position int, s *antmaster.Species) pageResult {
	result := pageResult{position: position, species: s}

	if e.RateLimiter != nil {
		if err := e.RateLimiter.Wait(ctx, hostOf(s.InfoURL)); err != nil {
			result.err = err
			return result
		}
	}

	delays := e.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, s.InfoURL, e.Fetcher.Fetch, e.Logger, delays)
	if err != nil {
		result.err = err
		return result
	}

	if e.Images != nil && !s.HasImage() {
		// A page without a usable image still yields a description.
		if img, err := e.Images.FindImage(html, s.InfoURL); err == nil {
			result.imageURL = img
		}
	}

	extracted, err := e.Extractor.Extract(html)
	if antmaster.ErrorCode(err) == antmaster.ENOTFOUND && e.Fallback != nil {
		extracted, err = e.Fallback.Extract(html)
	}
	if err != nil {
		result.err = err
		return result
	}

	markdown, err := e.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.markdown = markdown
	result.hash = ComputeHash(markdown)
	return result
}

func (e *Enricher) store(ctx context.Context, r pageResult, result *Result) error {
	if r.imageURL != "" {
		img := r.imageURL
		if _, err := e.Species.UpdateSpecies(ctx, r.species.ID, antmaster.SpeciesUpdate{ImageURL: &img}); err != nil {
			return fmt.Errorf("update image: %w", err)
		}
		result.Images++
	}

	existing, err := e.Species.FindDescription(ctx, r.species.ID)
	switch {
	case err == nil && existing.ContentHash == r.hash:
		result.Unchanged++
		return nil
	case err != nil && antmaster.ErrorCode(err) != antmaster.ENOTFOUND:
		return fmt.Errorf("find description: %w", err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	if err := e.Species.SetDescription(ctx, &antmaster.Description{
		SpeciesID:   r.species.ID,
		Content:     r.markdown,
		ContentHash: r.hash,
		FetchedAt:   now().UTC(),
	}); err != nil {
		return fmt.Errorf("set description: %w", err)
	}

	result.Updated++
	result.Bytes += len(r.markdown)
	if e.TokenCounter != nil {
		if tokens, err := e.TokenCounter.CountTokens(ctx, r.markdown); err == nil {
			result.Tokens += tokens
		}
	}
	return nil
}

// ComputeHash returns the hex xxhash of content.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
