package fuzzy

import "strings"

// Extractor guesses a "Genus epithet" candidate from free text. Triggers are
// phrases after which the name is expected; Stopwords are skipped when
// collecting the tokens that follow a trigger.
type Extractor struct {
	triggers  [][]string
	stopwords map[string]struct{}
}

// NewExtractor returns an Extractor for the given trigger phrases and
// stopwords. Both are normalized.
func NewExtractor(triggers, stopwords []string) *Extractor {
	e := &Extractor{stopwords: make(map[string]struct{}, len(stopwords))}
	for _, t := range triggers {
		if tokens := strings.Fields(Normalize(t)); len(tokens) > 0 {
			e.triggers = append(e.triggers, tokens)
		}
	}
	for _, w := range stopwords {
		e.stopwords[Normalize(w)] = struct{}{}
	}
	return e
}

// SpanishTriggers are the display and search verbs recognized by
// NewSpanishExtractor.
var SpanishTriggers = []string{
	"muestrame", "muéstrame", "enseñame", "enséñame",
	"busca", "buscar", "búscame", "ver",
}

// SpanishStopwords are skipped between a trigger and the candidate name.
var SpanishStopwords = []string{
	"el", "la", "los", "las", "un", "una", "unos", "unas",
	"de", "del", "a", "al", "me", "por", "favor",
	"especie", "especies", "hormiga", "hormigas",
	"foto", "fotos", "imagen", "imagenes", "imágenes",
	"género", "genero",
}

// NewSpanishExtractor returns an Extractor tuned for Spanish requests.
func NewSpanishExtractor() *Extractor {
	return NewExtractor(SpanishTriggers, SpanishStopwords)
}

// Extract returns up to two tokens naming a species. When the text contains
// a trigger, the first two non-stopword tokens after it are used; otherwise
// the last two tokens of the text. A single token is returned alone and
// empty input yields "".
func (e *Extractor) Extract(text string) string {
	tokens := strings.Fields(Normalize(text))
	if len(tokens) == 0 {
		return ""
	}
	if after, ok := e.afterTrigger(tokens); ok {
		var picked []string
		for _, tok := range after {
			if _, stop := e.stopwords[tok]; stop {
				continue
			}
			picked = append(picked, tok)
			if len(picked) == 2 {
				break
			}
		}
		if len(picked) > 0 {
			return strings.Join(picked, " ")
		}
	}
	if len(tokens) == 1 {
		return tokens[0]
	}
	return strings.Join(tokens[len(tokens)-2:], " ")
}

// afterTrigger returns the tokens following the earliest trigger occurrence.
func (e *Extractor) afterTrigger(tokens []string) ([]string, bool) {
	for i := range tokens {
		for _, trig := range e.triggers {
			if hasPrefix(tokens[i:], trig) {
				return tokens[i+len(trig):], true
			}
		}
	}
	return nil, false
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}
