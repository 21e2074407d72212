package expert_test

import (
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/expert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSpecies() []*antmaster.Species {
	return []*antmaster.Species{
		{ID: 1, ScientificName: "Messor barbarus", ImageURL: "http://img/messor.jpg"},
		{ID: 2, ScientificName: "Lasius niger", ImageURL: "http://img/lasius.jpg"},
	}
}

func mixedCatalog() []*antmaster.Species {
	return []*antmaster.Species{
		{ID: 1, ScientificName: "Messor barbarus", ImageURL: "http://img/messor.jpg"},
		{ID: 2, ScientificName: "Lasius niger", ImageURL: "http://img/lasius.jpg"},
		{ID: 3, ScientificName: "Lasius flavus"},
		{ID: 4, ScientificName: "Camponotus cruentatus", ImageURL: "http://img/campo.jpg"},
		{ID: 5, ScientificName: "Pheidole pallidula"},
	}
}

func names(species []*antmaster.Species) []string {
	out := make([]string, 0, len(species))
	for _, s := range species {
		out = append(out, s.ScientificName)
	}
	return out
}

func TestRouter_Display(t *testing.T) {
	t.Parallel()

	r := expert.NewRouter(expert.Spanish())

	t.Run("exact name", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("muéstrame Lasius niger", twoSpecies())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceDisplay, a.Source)
		assert.Equal(t, []string{"Lasius niger"}, names(a.Species))
		assert.Contains(t, a.Answer, "He encontrado 1 especies")
	})

	t.Run("exact name with punctuation", func(t *testing.T) {
		t.Parallel()

		catalog := []*antmaster.Species{
			{ID: 1, ScientificName: "Camponotus sp.", ImageURL: "http://img/campo-sp.jpg"},
			{ID: 2, ScientificName: "Camponotus cruentatus", ImageURL: "http://img/campo.jpg"},
		}

		a, ok := r.Route("muéstrame Camponotus sp.", catalog)

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceDisplay, a.Source)
		assert.Equal(t, []string{"Camponotus sp."}, names(a.Species))
	})

	t.Run("did you mean on typo", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("muestrame lasius nige", twoSpecies())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceSuggestion, a.Source)
		assert.Equal(t, []string{"Lasius niger"}, names(a.Species))
		assert.Contains(t, a.Answer, "Lasius niger")
	})

	t.Run("genus containment requires image", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("enséñame algún Lasius", mixedCatalog())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceDisplay, a.Source)
		assert.Equal(t, []string{"Lasius niger"}, names(a.Species))
	})

	t.Run("proactive suggestions", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("muestrame pheidol", mixedCatalog())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceSuggestion, a.Source)
		assert.Equal(t, []string{"Pheidole pallidula"}, names(a.Species))
	})

	t.Run("display wins over browse", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("muestrame especies de Lasius", mixedCatalog())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceDisplay, a.Source)
		assert.Equal(t, []string{"Lasius niger"}, names(a.Species))
	})

	t.Run("no display match falls through to later rules", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("muéstrame cuántas hay", twoSpecies())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceStats, a.Source)
	})
}

func TestRouter_Stats(t *testing.T) {
	t.Parallel()

	r := expert.NewRouter(expert.Spanish())

	a, ok := r.Route("cuántas especies hay", twoSpecies())

	require.True(t, ok)
	require.NotNil(t, a.Total)
	require.NotNil(t, a.WithImage)
	assert.Equal(t, 2, *a.Total)
	assert.Equal(t, 2, *a.WithImage)
	assert.Equal(t, "Tenemos 2 especies registradas en AntMaster, de las cuales 2 tienen foto asociada.", a.Answer)
	assert.NotNil(t, a.Species)
	assert.Empty(t, a.Species)
}

func TestRouter_Browse(t *testing.T) {
	t.Parallel()

	r := expert.NewRouter(expert.Spanish())

	t.Run("returns every species of mentioned genera", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("quiero buscar Lasius y Pheidole", mixedCatalog())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceBrowse, a.Source)
		assert.Equal(t, []string{"Lasius niger", "Lasius flavus", "Pheidole pallidula"}, names(a.Species))
		assert.Equal(t, "He encontrado 3 especies de los géneros: Lasius, Pheidole.", a.Answer)
	})

	t.Run("no genus falls through", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Route("quiero ver algo bonito", mixedCatalog())

		assert.False(t, ok)
	})
}

func TestRouter_Similar(t *testing.T) {
	t.Parallel()

	r := expert.NewRouter(expert.Spanish())

	t.Run("matches term after last separator", func(t *testing.T) {
		t.Parallel()

		a, ok := r.Route("dame hormigas parecidas a niger", mixedCatalog())

		require.True(t, ok)
		assert.Equal(t, antmaster.SourceSimilar, a.Source)
		assert.Equal(t, []string{"Lasius niger"}, names(a.Species))
		assert.Equal(t, "Estas especies coinciden con el término 'niger':", a.Answer)
	})

	t.Run("unmatched term falls through", func(t *testing.T) {
		t.Parallel()

		_, ok := r.Route("similares a formica", mixedCatalog())

		assert.False(t, ok)
	})
}

func TestRouter_Fallback(t *testing.T) {
	t.Parallel()

	r := expert.NewRouter(expert.Spanish())

	_, ok := r.Route("¿qué comen las hormigas?", mixedCatalog())

	assert.False(t, ok)
}
