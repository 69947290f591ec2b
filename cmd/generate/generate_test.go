package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/vitrine/internal/testutil"
)

func TestGenerateWritesTypeScriptModules(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.MkdirAll("data-yaml")
	env.WriteFileString("data-yaml/lighting.yaml", `
- id: 1
  year: 1962
  imageUrl: https://i.ibb.co/abc/arco.png
  name: Arco
- id: 2
  year: 1967
  imageUrl: https://i.ibb.co/def/snoopy.png
  name: Snoopy
`)

	err := GenerateWithParams(env.Path("data-yaml"), env.Path("ts-data"))
	require.NoError(t, err)

	out := env.ReadFileString("ts-data/lighting.ts")
	assert.Contains(t, out, `import type { TimelineItem } from "./types";`)
	assert.Contains(t, out, "export const lightingData: TimelineItem[] = [")
	assert.Contains(t, out, "id: 1,")
	assert.Contains(t, out, "year: 1962,")
	assert.Contains(t, out, `imageUrl: "https://i.ibb.co/abc/arco.png",`)
	assert.Contains(t, out, `name: "Snoopy",`)
	assert.True(t, strings.HasSuffix(out, "];\n"))
}

func TestGenerateSkipsNonListFiles(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("data-yaml/catalog.yaml", "Flos:\n  Arco: 1962\n")
	env.WriteFileString("data-yaml/lighting.yaml", `
- id: 1
  year: 1962
  imageUrl: https://i.ibb.co/abc/arco.png
  name: Arco
`)

	err := GenerateWithParams(env.Path("data-yaml"), env.Path("ts-data"))
	require.NoError(t, err)

	env.RequireFileNotExists("ts-data/catalog.ts")
	env.RequireFileExists("ts-data/lighting.ts")
}

func TestGenerateEmptyInputDirIsNoop(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.MkdirAll("data-yaml")

	err := GenerateWithParams(env.Path("data-yaml"), env.Path("ts-data"))
	require.NoError(t, err)
}

func TestRenderDropsItemsMissingRequiredKeys(t *testing.T) {
	out := Render("lighting", []map[string]any{
		{"id": 1, "year": 1962, "imageUrl": "https://x/1.png", "name": "Arco"},
		{"id": 2, "year": 1967, "name": "no image url"},
	})

	assert.Contains(t, out, `name: "Arco",`)
	assert.NotContains(t, out, "no image url")
}

func TestRenderQuotesStringYears(t *testing.T) {
	out := Render("lighting", []map[string]any{
		{"id": "arco", "year": "c. 1962", "imageUrl": "https://x/1.png", "name": "Arco"},
	})

	assert.Contains(t, out, `id: "arco",`)
	assert.Contains(t, out, `year: "c. 1962",`)
}

func TestRenderEmptyListProducesValidModule(t *testing.T) {
	out := Render("empty", nil)

	assert.Equal(t, "import type { TimelineItem } from \"./types\";\n\nexport const emptyData: TimelineItem[] = [\n];\n", out)
}
