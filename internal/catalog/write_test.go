package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalDeterministic(t *testing.T) {
	c := Catalog{
		"Vitra": ProductMap{
			"Panton Chair": map[string]any{"year": 1967},
			"Eames Chair":  1956,
		},
		"Flos": ProductMap{"Arco": 1962},
	}

	first, err := Marshal(c)
	require.NoError(t, err)
	second, err := Marshal(c)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	// Sorted key order regardless of map iteration order.
	assert.Regexp(t, `(?s)Flos:.*Vitra:.*Eames Chair:.*Panton Chair:`, string(first))
}

func TestWriteFileRoundTrip(t *testing.T) {
	c := Catalog{
		"Vitra": ProductMap{
			"Eames Chair": map[string]any{"year": 1956, "image": "https://ibb.co/x"},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "vitra.yaml")
	require.NoError(t, WriteFile(path, c))

	got, err := LoadFragment(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestMarshalQuotesAmbiguousNames(t *testing.T) {
	// A product name that looks like a number must survive a round trip as
	// a string key.
	c := Catalog{"Braun": ProductMap{"606": map[string]any{"year": 1960}}}

	data, err := Marshal(c)
	require.NoError(t, err)

	got, err := ParseFragment(data)
	require.NoError(t, err)
	assert.Contains(t, got["Braun"], "606")
}
