package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formery/formery/pkg/catalog"
	"github.com/formery/formery/pkg/domain"
)

const catalogSource = `
entity_name:
  type: string
  prompt: "What is the legal name of {{for_label}}?"
  help: Enter the name exactly as it should appear on the filing.
annual_or_amended:
  type: radio
  prompt: Is this an original filing or an amendment?
  choices:
    - {value: original, label: Original filing}
    - {value: amendment, label: Amendment}
`

func TestLoad(t *testing.T) {
	defs, err := catalog.Load([]byte(catalogSource))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	def, ok := defs.Question("entity_name")
	require.True(t, ok)
	assert.Equal(t, "entity_name", def.Code)
	assert.Equal(t, domain.TypeString, def.Type)
	assert.Equal(t, "What is the legal name of {{for_label}}?", def.Prompt)
	assert.NotEmpty(t, def.Help)

	def, ok = defs.Question("annual_or_amended")
	require.True(t, ok)
	assert.Equal(t, domain.TypeRadio, def.Type)
	require.Len(t, def.Choices, 2)
	assert.Equal(t, domain.Choice{Value: "original", Label: "Original filing"}, def.Choices[0])

	_, ok = defs.Question("missing")
	assert.False(t, ok)
}

func TestLoadRejectsUnknownType(t *testing.T) {
	_, err := catalog.Load([]byte("q:\n  type: hologram\n  prompt: ?\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hologram")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := catalog.Load([]byte("\t{{"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogSource), 0o644))

	defs, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestStaticCodes(t *testing.T) {
	defs := catalog.Static{
		"a": {Code: "a", Type: domain.TypeString},
		"b": {Code: "b", Type: domain.TypeDate},
	}
	assert.ElementsMatch(t, []string{"a", "b"}, defs.Codes())
}
