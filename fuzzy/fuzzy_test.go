package fuzzy_test

import (
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/fuzzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []*antmaster.Species {
	return []*antmaster.Species{
		{ID: 1, ScientificName: "Lasius niger", ImageURL: "http://img/1.jpg"},
		{ID: 2, ScientificName: "Lasius flavus"},
		{ID: 3, ScientificName: "Messor barbarus", ImageURL: "http://img/3.jpg"},
		{ID: 4, ScientificName: "Camponotus cruentatus", ImageURL: "http://img/4.jpg"},
		{ID: 5, ScientificName: ""},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hola lasius niger", fuzzy.Normalize("  ¿Hola, Lasius\nNIGER?! "))
	assert.Empty(t, fuzzy.Normalize(" .;: "))
	// Accents are kept; lexicons list accented and plain spellings.
	assert.Equal(t, "muéstrame enséñame", fuzzy.Normalize("¡Muéstrame, ENSÉÑAME!"))
}

func TestEditDistance(t *testing.T) {
	t.Parallel()

	t.Run("identity is zero", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "a", "lasius niger", "muéstrame"} {
			assert.Equal(t, 0, fuzzy.EditDistance(s, s), s)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()
		pairs := [][2]string{{"kitten", "sitting"}, {"", "abc"}, {"lasius nige", "lasius niger"}, {"ñandú", "nandu"}}
		for _, p := range pairs {
			assert.Equal(t, fuzzy.EditDistance(p[0], p[1]), fuzzy.EditDistance(p[1], p[0]))
		}
	})

	t.Run("classic values", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 3, fuzzy.EditDistance("kitten", "sitting"))
		assert.Equal(t, 3, fuzzy.EditDistance("", "abc"))
		assert.Equal(t, 1, fuzzy.EditDistance("lasius nige", "lasius niger"))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1, fuzzy.EditDistance("enseñame", "enseame"))
		assert.Equal(t, 1, fuzzy.EditDistance("ñ", "n"))
	})
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("exact after normalization", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, fuzzy.Similarity("Lasius Niger.", "lasius niger"), 0.001)
	})

	t.Run("both empty", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 100.0, fuzzy.Similarity("", ""), 0.001)
	})

	t.Run("one empty", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.0, fuzzy.Similarity("", "lasius"), 0.001)
	})

	t.Run("containment scores 90", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 90.0, fuzzy.Similarity("lasius", "Lasius niger"), 0.001)
		assert.InDelta(t, 90.0, fuzzy.Similarity("Lasius niger", "lasius"), 0.001)
	})

	t.Run("edit distance", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 91.67, fuzzy.Similarity("lasius nige", "lasius niger"), 0.01)
	})

	t.Run("bounded", func(t *testing.T) {
		t.Parallel()
		for _, p := range [][2]string{{"a", "zzzzzz"}, {"abc", "xyz"}, {"x", "x"}} {
			s := fuzzy.Similarity(p[0], p[1])
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	})
}

func TestFindSimilar(t *testing.T) {
	t.Parallel()

	t.Run("filters by threshold and sorts", func(t *testing.T) {
		t.Parallel()

		matches := fuzzy.FindSimilar("lasius nige", catalog(), fuzzy.DidYouMeanThreshold)

		require.NotEmpty(t, matches)
		assert.Equal(t, "Lasius niger", matches[0].Species.ScientificName)
		for i, m := range matches {
			assert.GreaterOrEqual(t, m.Similarity, fuzzy.DidYouMeanThreshold)
			if i > 0 {
				assert.LessOrEqual(t, m.Similarity, matches[i-1].Similarity)
			}
		}
	})

	t.Run("ties favor longer names", func(t *testing.T) {
		t.Parallel()

		matches := fuzzy.FindSimilar("lasius", catalog(), 80)

		require.Len(t, matches, 2)
		assert.Equal(t, "Lasius flavus", matches[0].Species.ScientificName)
		assert.Equal(t, "Lasius niger", matches[1].Species.ScientificName)
	})

	t.Run("skips empty names", func(t *testing.T) {
		t.Parallel()

		for _, m := range fuzzy.FindSimilar("", catalog(), 0) {
			assert.NotEmpty(t, m.Species.ScientificName)
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, fuzzy.FindSimilar("xyzzy plugh", catalog(), fuzzy.SuggestThreshold))
	})
}

func TestBest(t *testing.T) {
	t.Parallel()

	m, ok := fuzzy.Best("mesor barbarus", catalog(), fuzzy.DidYouMeanThreshold)
	require.True(t, ok)
	assert.Equal(t, 3, m.Species.ID)

	_, ok = fuzzy.Best("zzz", catalog(), fuzzy.DidYouMeanThreshold)
	assert.False(t, ok)
}
