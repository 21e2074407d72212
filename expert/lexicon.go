package expert

import (
	"text/template"

	"github.com/fwojciec/antmaster/fuzzy"
)

// Lexicon holds the locale-specific trigger phrases, answer templates and
// prompt text used by the Router and the Service. Trigger phrases are
// matched as substrings of the normalized utterance.
type Lexicon struct {
	DisplayTriggers []string
	CountTriggers   []string
	BrowseTriggers  []string
	SimilarTriggers []string

	// SimilarSeparator precedes the term in a similarity request; the text
	// after its last occurrence is the term.
	SimilarSeparator string

	BeginnerTriggers []string
	BeginnerSpecies  []string

	// Extractor guesses a candidate name from the utterance.
	Extractor *fuzzy.Extractor

	DisplayAnswer    string // %d matches
	DidYouMeanAnswer string // %s requested name, %s suggested species
	SuggestAnswer    string // %s requested name
	StatsAnswer      string // %d total, %d with image
	BrowseAnswer     string // %d matches, %s genera
	SimilarAnswer    string // %s term

	// ContextQuery wraps the utterance when a context species is known:
	// %s context species, %s utterance.
	ContextQuery string

	// Unavailable is the answer text when the knowledge backend fails.
	Unavailable string

	// SystemPrompt is a text/template executed with PromptData.
	SystemPrompt *template.Template
}

// PromptData is passed to Lexicon.SystemPrompt.
type PromptData struct {
	Total       int
	Sample      []string
	Context     string
	Description string
}

const spanishSystemPrompt = `Eres un mirmecólogo experto (experto en hormigas) y actúas como asistente para una app tipo iNaturalist centrada en hormigas.

Tienes acceso lógico SOLO a una base de datos llamada 'AntMaster' con nombres científicos de especies de hormigas.
Contexto rápido: Total especies en BD: {{.Total}}.
Algunos ejemplos de especies presentes: {{join .Sample ", "}}.
{{- if .Description}}

Ficha de {{.Context}} en AntMaster:
{{.Description}}
{{- end}}

REGLAS MUY IMPORTANTES:
- Solo para verificar la EXISTENCIA de una especie usa estrictamente la base de datos AntMaster.
- Para guías de crianza, alimentación, comportamiento, biología y cuidados generales, PUEDES y DEBES usar tu conocimiento general experto, aunque la especie no esté detallada en la BD.
- No afirmes nunca con seguridad que una especie está o no está en un país concreto basándote solo en la BD, pero puedes mencionar su distribución habitual según tu conocimiento experto.
- Para recomendaciones de especies para principiantes, prioriza especies de géneros comunes y fáciles de mantener (por ejemplo Lasius, Messor, Camponotus).
- Si te pasamos una lista filtrada de especies (por ejemplo, de un género), céntrate en esas especies y no menciones otras.

Responde SIEMPRE en español, de forma clara y experta (hasta 4-5 párrafos).
Si no estás seguro de algo, dilo explícitamente y sugiere al usuario que consulte fuentes adicionales.`

// Spanish returns the default Lexicon.
func Spanish() *Lexicon {
	return &Lexicon{
		DisplayTriggers:  []string{"muestrame", "muéstrame", "enseñame", "enséñame"},
		CountTriggers:    []string{"cuantas", "cuántas", "total"},
		BrowseTriggers:   []string{"buscar", "muestr", "ver ", "especies de"},
		SimilarTriggers:  []string{"parecidas a", "similares a"},
		SimilarSeparator: " a ",
		BeginnerTriggers: []string{"empezar", "principiante", "iniciarme"},
		BeginnerSpecies:  []string{"Lasius niger", "Messor barbarus", "Camponotus cruentatus"},
		Extractor:        fuzzy.NewSpanishExtractor(),

		DisplayAnswer:    "He encontrado %d especies que coinciden con tu petición. Aquí tienes algunos ejemplos:",
		DidYouMeanAnswer: "No he encontrado '%s'. ¿Quizás te refieres a %s?",
		SuggestAnswer:    "No he encontrado '%s' en AntMaster. Quizás te interese alguna de estas especies:",
		StatsAnswer:      "Tenemos %d especies registradas en AntMaster, de las cuales %d tienen foto asociada.",
		BrowseAnswer:     "He encontrado %d especies de los géneros: %s.",
		SimilarAnswer:    "Estas especies coinciden con el término '%s':",
		ContextQuery:     "Contexto previo: se estaba visualizando '%s'. Pregunta del usuario: '%s'. (Si la pregunta menciona explícitamente otra especie distinta, responde sobre la nueva).",
		Unavailable:      "El experto no está disponible en este momento: %s",
		SystemPrompt:     MustParsePrompt(spanishSystemPrompt),
	}
}

// MustParsePrompt parses a system prompt template. It provides a join
// function and panics on malformed input.
func MustParsePrompt(text string) *template.Template {
	return template.Must(template.New("system").Funcs(template.FuncMap{"join": joinNames}).Parse(text))
}
