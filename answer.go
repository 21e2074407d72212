package antmaster

import "context"

// Answer sources identify which rule produced an Answer.
const (
	SourceDisplay    = "display"
	SourceSuggestion = "suggestion"
	SourceStats      = "stats"
	SourceBrowse     = "browse"
	SourceSimilar    = "similar"
	SourceExpert     = "expert"
)

// Query is a user question with an optional hint naming the species the
// user was viewing.
type Query struct {
	Text           string `json:"query"`
	SpeciesContext string `json:"speciesContext,omitempty"`
}

// Answer is the structured reply to a Query. Species is never nil.
// Error is set when the knowledge backend failed; the Answer is still a
// successful reply at the protocol level.
type Answer struct {
	Answer    string     `json:"answer"`
	Species   []*Species `json:"species"`
	Error     string     `json:"error,omitempty"`
	Total     *int       `json:"total,omitempty"`
	WithImage *int       `json:"withImage,omitempty"`
	Source    string     `json:"source,omitempty"`
}

// NewAnswer returns an Answer with a non-nil species list.
func NewAnswer(text string, species []*Species) *Answer {
	if species == nil {
		species = []*Species{}
	}
	return &Answer{Answer: text, Species: species}
}

// Asker answers natural language questions about the species catalog.
type Asker interface {
	// Ask routes the query and returns an Answer. A failing knowledge
	// backend yields an Answer with Error set rather than an error.
	// Returns an error only when the catalog itself cannot be read.
	Ask(ctx context.Context, q Query) (*Answer, error)
}
