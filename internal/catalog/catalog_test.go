package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifyTotality(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Record
	}{
		{"bare int year", 1949, Record{"year": 1949}},
		{"string year", "1949", Record{"year": "1949"}},
		{
			"full record",
			map[string]any{"year": 1956, "image": "https://i.ibb.co/x.png"},
			Record{"year": 1956, "image": "https://i.ibb.co/x.png"},
		},
		{"record without year", map[string]any{"image": "x"}, Record{"image": "x"}},
		{"nil", nil, Record{"year": ""}},
		{"float", 19.49, Record{"year": ""}},
		{"list", []any{1949}, Record{"year": ""}},
		{"bool", true, Record{"year": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unify(tt.input))
		})
	}
}

func TestUnifyCopiesRecords(t *testing.T) {
	raw := map[string]any{"year": 1956}
	rec := Unify(raw)
	rec.SetImage("https://i.ibb.co/x.png")

	assert.NotContains(t, raw, "image", "unify must not alias the source map")
}

func TestRecordYear(t *testing.T) {
	assert.Equal(t, "1949", Record{"year": 1949}.Year())
	assert.Equal(t, "1949", Record{"year": "1949"}.Year())
	assert.Equal(t, "", Record{"year": ""}.Year())
	assert.Equal(t, "", Record{}.Year())
}

func TestRecordImage(t *testing.T) {
	rec := Record{"year": 1956}
	assert.Equal(t, "", rec.Image())

	rec.SetImage("https://i.ibb.co/abc/chair.png")
	assert.Equal(t, "https://i.ibb.co/abc/chair.png", rec.Image())
}

func TestAbsorbLastWriteWins(t *testing.T) {
	merged := Catalog{
		"Vitra": ProductMap{"Eames Chair": map[string]any{"year": 1956}},
	}

	merged.Absorb(Catalog{
		"Vitra": ProductMap{
			"Eames Chair": map[string]any{"year": 1956, "image": "https://ibb.co/x"},
		},
		"Flos": ProductMap{"Arco": 1962},
	})

	assert.Equal(t,
		map[string]any{"year": 1956, "image": "https://ibb.co/x"},
		merged["Vitra"]["Eames Chair"])
	assert.Equal(t, 1962, merged["Flos"]["Arco"])
}

func TestMergeFoldsFragmentsInOrder(t *testing.T) {
	a := Catalog{"Vitra": ProductMap{"Eames Chair": map[string]any{"year": 1956}}}
	b := Catalog{"Vitra": ProductMap{"Eames Chair": map[string]any{"year": 1956, "image": "https://ibb.co/x"}}}

	merged := Merge([]Catalog{a, b})

	assert.Equal(t, b["Vitra"]["Eames Chair"], merged["Vitra"]["Eames Chair"])
	// Sources are left untouched.
	assert.Equal(t, map[string]any{"year": 1956}, a["Vitra"]["Eames Chair"])
}
