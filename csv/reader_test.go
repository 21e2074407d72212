package csv_test

import (
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadAll(t *testing.T) {
	t.Parallel()

	t.Run("reads all columns", func(t *testing.T) {
		t.Parallel()

		input := `scientific_name,antwiki_url,photo_url,inaturalist_id
Messor barbarus,https://www.antwiki.org/wiki/Messor_barbarus,https://img.example.org/mb.jpg,52765
Lasius niger,https://www.antwiki.org/wiki/Lasius_niger,,
`

		got, err := csv.NewReader(strings.NewReader(input)).ReadAll()

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, &antmaster.Species{
			ScientificName: "Messor barbarus",
			InfoURL:        "https://www.antwiki.org/wiki/Messor_barbarus",
			ImageURL:       "https://img.example.org/mb.jpg",
			ExternalRefID:  "52765",
		}, got[0])
		assert.Equal(t, "Lasius niger", got[1].ScientificName)
		assert.Empty(t, got[1].ImageURL)
	})

	t.Run("matches columns by name in any order", func(t *testing.T) {
		t.Parallel()

		input := "Image_URL, Name\nhttps://img.example.org/cc.jpg, Camponotus   cruentatus\n"

		got, err := csv.NewReader(strings.NewReader(input)).ReadAll()

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Camponotus cruentatus", got[0].ScientificName)
		assert.Equal(t, "https://img.example.org/cc.jpg", got[0].ImageURL)
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		t.Parallel()

		input := "\ufeffscientific_name\nPheidole pallidula\n"

		got, err := csv.NewReader(strings.NewReader(input)).ReadAll()

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Pheidole pallidula", got[0].ScientificName)
	})

	t.Run("skips blank names and short rows", func(t *testing.T) {
		t.Parallel()

		input := "scientific_name,antwiki_url\n,https://x\nTetramorium caespitum\n"

		got, err := csv.NewReader(strings.NewReader(input)).ReadAll()

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Tetramorium caespitum", got[0].ScientificName)
		assert.Empty(t, got[0].InfoURL)
	})

	t.Run("semicolon separated", func(t *testing.T) {
		t.Parallel()

		input := "scientific_name;photo_url\nCrematogaster scutellaris;https://img.example.org/cs.jpg\n"

		got, err := csv.NewReader(strings.NewReader(input)).WithComma(';').ReadAll()

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "https://img.example.org/cs.jpg", got[0].ImageURL)
	})

	t.Run("missing name column is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := csv.NewReader(strings.NewReader("antwiki_url\nhttps://x\n")).ReadAll()

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := csv.NewReader(strings.NewReader("")).ReadAll()

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})

	t.Run("malformed quoting is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := csv.NewReader(strings.NewReader("scientific_name\n\"Lasius niger\n")).ReadAll()

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	r := csv.NewReader(strings.NewReader("scientific_name\nLasius niger\n"))

	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "Lasius niger", s.ScientificName)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}
