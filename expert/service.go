// Package expert classifies user questions about the species catalog and
// answers them locally or by delegating to a knowledge backend.
package expert

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/fuzzy"
)

// Prompt bounds.
const (
	// SampleSize is the number of species names embedded in the prompt.
	SampleSize = 20

	// MaxDescriptionRunes truncates a context species description.
	MaxDescriptionRunes = 2000
)

var _ antmaster.Asker = (*Service)(nil)

// Service implements antmaster.Asker. Every query reads a fresh catalog
// snapshot, runs the Router and otherwise delegates to the Completer.
type Service struct {
	catalog   antmaster.Catalog
	completer antmaster.Completer
	lex       *Lexicon
	router    *Router
}

// Option configures a Service.
type Option func(*Service)

// WithLexicon replaces the default Spanish lexicon.
func WithLexicon(lex *Lexicon) Option {
	return func(s *Service) {
		s.lex = lex
	}
}

// NewService creates a Service answering from catalog and completer.
func NewService(catalog antmaster.Catalog, completer antmaster.Completer, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		completer: completer,
		lex:       Spanish(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = NewRouter(s.lex)
	return s
}

// Ask answers q. Backend failures are reported inside the Answer.
func (s *Service) Ask(ctx context.Context, q antmaster.Query) (*antmaster.Answer, error) {
	species, err := s.catalog.FindAllSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if a, ok := s.router.Route(q.Text, species); ok {
		return a, nil
	}
	return s.delegate(ctx, q, species)
}

func (s *Service) delegate(ctx context.Context, q antmaster.Query, species []*antmaster.Species) (*antmaster.Answer, error) {
	system, err := s.systemPrompt(ctx, q, species)
	if err != nil {
		return nil, err
	}

	text, err := s.completer.Complete(ctx, system, s.userPrompt(q))
	if err != nil {
		detail := describe(err)
		a := antmaster.NewAnswer(fmt.Sprintf(s.lex.Unavailable, detail), nil)
		a.Error = detail
		a.Source = antmaster.SourceExpert
		return a, nil
	}

	a := antmaster.NewAnswer(text, s.Resolve(q.Text, species))
	a.Source = antmaster.SourceExpert
	return a, nil
}

func (s *Service) systemPrompt(ctx context.Context, q antmaster.Query, species []*antmaster.Species) (string, error) {
	data := PromptData{Total: len(species), Context: strings.TrimSpace(q.SpeciesContext)}
	for _, sp := range species {
		if len(data.Sample) == SampleSize {
			break
		}
		data.Sample = append(data.Sample, sp.ScientificName)
	}
	if data.Context != "" {
		data.Description = s.contextDescription(ctx, data.Context, species)
	}

	var buf bytes.Buffer
	if err := s.lex.SystemPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return buf.String(), nil
}

// contextDescription returns the stored description of the species named
// by the context hint. Lookup failures only drop the description.
func (s *Service) contextDescription(ctx context.Context, name string, species []*antmaster.Species) string {
	for _, sp := range species {
		if !strings.EqualFold(sp.ScientificName, name) {
			continue
		}
		desc, err := s.catalog.FindDescription(ctx, sp.ID)
		if err != nil {
			return ""
		}
		return truncate(desc.Content, MaxDescriptionRunes)
	}
	return ""
}

func (s *Service) userPrompt(q antmaster.Query) string {
	if c := strings.TrimSpace(q.SpeciesContext); c != "" {
		return fmt.Sprintf(s.lex.ContextQuery, c, q.Text)
	}
	return q.Text
}

// Resolve returns up to five species mentioned by text: fuzzy matches of
// the extracted candidate name, otherwise species whose name or genus the
// text contains, otherwise the beginner set when the text asks for one.
func (s *Service) Resolve(text string, species []*antmaster.Species) []*antmaster.Species {
	named := withName(species)

	if candidate := s.lex.Extractor.Extract(text); candidate != "" {
		if matches := fuzzy.FindSimilar(candidate, named, fuzzy.DidYouMeanThreshold); len(matches) > 0 {
			return speciesOf(matches, maxSuggestions)
		}
	}

	if found := containing(fuzzy.Normalize(text), named); len(found) > 0 {
		if len(found) > maxSuggestions {
			found = found[:maxSuggestions]
		}
		return found
	}

	query := fuzzy.Normalize(text)
	if containsAny(query, s.lex.BeginnerTriggers) {
		return s.beginners(species)
	}
	return []*antmaster.Species{}
}

func (s *Service) beginners(species []*antmaster.Species) []*antmaster.Species {
	out := []*antmaster.Species{}
	for _, name := range s.lex.BeginnerSpecies {
		for _, sp := range species {
			if strings.EqualFold(sp.ScientificName, name) && sp.HasImage() {
				out = append(out, sp)
				break
			}
		}
	}
	return out
}

// containing returns species whose full name appears in query, longest
// first, followed by species whose genus appears in query.
func containing(query string, species []*antmaster.Species) []*antmaster.Species {
	byName := filter(species, func(sp *antmaster.Species) bool {
		return mentions(query, sp.ScientificName)
	})
	sort.SliceStable(byName, func(i, j int) bool {
		return len(byName[i].ScientificName) > len(byName[j].ScientificName)
	})
	if len(byName) > 0 {
		return byName
	}
	return filter(species, func(sp *antmaster.Species) bool {
		return mentions(query, sp.Genus())
	})
}

// describe returns a user-facing description of a backend failure.
func describe(err error) string {
	if antmaster.ErrorCode(err) != antmaster.EINTERNAL {
		return antmaster.ErrorMessage(err)
	}
	return err.Error()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func joinNames(names []string, sep string) string {
	return strings.Join(names, sep)
}
