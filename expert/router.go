package expert

import (
	"fmt"
	"strings"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/fuzzy"
)

// maxSuggestions bounds proactive suggestions and expert attachments.
const maxSuggestions = 5

// Router answers utterances that can be resolved from the catalog snapshot
// alone. Rules are tried in order and the first match wins: display,
// statistics, genus browse, similarity.
type Router struct {
	lex *Lexicon
}

// NewRouter returns a Router using lex.
func NewRouter(lex *Lexicon) *Router {
	return &Router{lex: lex}
}

// Route returns a local answer, or false when the utterance must be
// delegated to the knowledge backend.
func (r *Router) Route(text string, species []*antmaster.Species) (*antmaster.Answer, bool) {
	query := fuzzy.Normalize(text)

	if containsAny(query, r.lex.DisplayTriggers) {
		if a := r.display(text, query, species); a != nil {
			return a, true
		}
	}
	if containsAny(query, r.lex.CountTriggers) {
		return r.stats(species), true
	}
	if containsAny(query, r.lex.BrowseTriggers) {
		if a := r.browse(query, species); a != nil {
			return a, true
		}
	}
	if containsAny(query, r.lex.SimilarTriggers) {
		if a := r.similar(query, species); a != nil {
			return a, true
		}
	}
	return nil, false
}

// display resolves a direct request for a species: exact name, then a close
// two-word name, then genus, then proactive suggestions.
func (r *Router) display(text, query string, species []*antmaster.Species) *antmaster.Answer {
	named := withName(species)
	pictured := withImage(named)

	if exact := filter(pictured, func(s *antmaster.Species) bool {
		return mentions(query, s.ScientificName)
	}); len(exact) > 0 {
		return r.displayAnswer(exact)
	}

	candidate := r.lex.Extractor.Extract(text)
	if len(strings.Fields(candidate)) == 2 {
		if m, ok := fuzzy.Best(candidate, pictured, fuzzy.DidYouMeanThreshold); ok {
			a := antmaster.NewAnswer(fmt.Sprintf(r.lex.DidYouMeanAnswer, candidate, m.Species.ScientificName), []*antmaster.Species{m.Species})
			a.Source = antmaster.SourceSuggestion
			return a
		}
	}

	if byGenus := filter(pictured, func(s *antmaster.Species) bool {
		return mentions(query, s.Genus())
	}); len(byGenus) > 0 {
		return r.displayAnswer(byGenus)
	}

	if candidate == "" {
		return nil
	}
	matches := fuzzy.FindSimilar(candidate, named, fuzzy.SuggestThreshold)
	if len(matches) == 0 {
		return nil
	}
	a := antmaster.NewAnswer(fmt.Sprintf(r.lex.SuggestAnswer, candidate), speciesOf(matches, maxSuggestions))
	a.Source = antmaster.SourceSuggestion
	return a
}

func (r *Router) displayAnswer(found []*antmaster.Species) *antmaster.Answer {
	a := antmaster.NewAnswer(fmt.Sprintf(r.lex.DisplayAnswer, len(found)), found)
	a.Source = antmaster.SourceDisplay
	return a
}

func (r *Router) stats(species []*antmaster.Species) *antmaster.Answer {
	total := len(species)
	pictured := len(withImage(species))
	a := antmaster.NewAnswer(fmt.Sprintf(r.lex.StatsAnswer, total, pictured), nil)
	a.Total = &total
	a.WithImage = &pictured
	a.Source = antmaster.SourceStats
	return a
}

// browse returns every species whose genus is mentioned in the query.
func (r *Router) browse(query string, species []*antmaster.Species) *antmaster.Answer {
	var genera []string
	seen := make(map[string]bool)
	for _, s := range withName(species) {
		g := fuzzy.Normalize(s.Genus())
		if seen[g] {
			continue
		}
		seen[g] = true
		if mentions(query, g) {
			genera = append(genera, s.Genus())
		}
	}
	if len(genera) == 0 {
		return nil
	}

	matched := make(map[string]bool, len(genera))
	for _, g := range genera {
		matched[fuzzy.Normalize(g)] = true
	}
	found := filter(species, func(s *antmaster.Species) bool {
		return s != nil && matched[fuzzy.Normalize(s.Genus())]
	})
	a := antmaster.NewAnswer(fmt.Sprintf(r.lex.BrowseAnswer, len(found), strings.Join(genera, ", ")), found)
	a.Source = antmaster.SourceBrowse
	return a
}

// similar substring-matches the term after the last separator.
func (r *Router) similar(query string, species []*antmaster.Species) *antmaster.Answer {
	idx := strings.LastIndex(query, r.lex.SimilarSeparator)
	if idx < 0 {
		return nil
	}
	term := strings.TrimSpace(query[idx+len(r.lex.SimilarSeparator):])
	if term == "" {
		return nil
	}
	found := filter(withName(species), func(s *antmaster.Species) bool {
		return strings.Contains(fuzzy.Normalize(s.ScientificName), term)
	})
	if len(found) == 0 {
		return nil
	}
	a := antmaster.NewAnswer(fmt.Sprintf(r.lex.SimilarAnswer, term), found)
	a.Source = antmaster.SourceSimilar
	return a
}

// mentions reports whether the normalized query contains name, compared in
// normalized form.
func mentions(query, name string) bool {
	n := fuzzy.Normalize(name)
	return n != "" && strings.Contains(query, n)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func filter(species []*antmaster.Species, keep func(*antmaster.Species) bool) []*antmaster.Species {
	var out []*antmaster.Species
	for _, s := range species {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func withName(species []*antmaster.Species) []*antmaster.Species {
	return filter(species, func(s *antmaster.Species) bool {
		return s != nil && strings.TrimSpace(s.ScientificName) != ""
	})
}

func withImage(species []*antmaster.Species) []*antmaster.Species {
	return filter(species, func(s *antmaster.Species) bool {
		return s != nil && s.HasImage()
	})
}

func speciesOf(matches []antmaster.Match, limit int) []*antmaster.Species {
	out := make([]*antmaster.Species, 0, min(len(matches), limit))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Species)
	}
	return out
}
