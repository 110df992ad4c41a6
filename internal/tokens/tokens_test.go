package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilify.dev/utilify/internal/registry"
	"utilify.dev/utilify/internal/tokens"
)

const tokenJSON = `{
  "color": {
    "primary": { "$value": "#3b82f6", "$type": "color" },
    "danger": { "$value": "#ef4444", "$type": "color" }
  },
  "space": {
    "md": { "$value": "16px", "$type": "dimension" }
  }
}`

func TestParse(t *testing.T) {
	parsed, err := tokens.Parse([]byte(tokenJSON), "app")
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	names := map[string]bool{}
	for _, tok := range parsed {
		names[tok.CSSVariableName()] = true
	}
	assert.True(t, names["--app-color-primary"])
	assert.True(t, names["--app-color-danger"])
	assert.True(t, names["--app-space-md"])
}

func TestParseInvalid(t *testing.T) {
	_, err := tokens.Parse([]byte("{nope"), "app")
	assert.Error(t, err)
}

// TestSeed registers every token as a global definition that resolves like
// a :root custom property.
func TestSeed(t *testing.T) {
	reg := registry.New()
	added, err := tokens.Seed(reg, []byte(tokenJSON), "app")
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 3, reg.Count())

	res := reg.Resolve("--app-color-primary", registry.Context{}, nil)
	require.True(t, res.Resolved)
	assert.Equal(t, "#3b82f6", res.Value)

	value := reg.ResolveValue("var(--app-space-md)", registry.Context{})
	assert.False(t, value.HasUnresolved)
	assert.Equal(t, "16px", value.Value)
}

func TestSeedNoPrefix(t *testing.T) {
	reg := registry.New()
	_, err := tokens.Seed(reg, []byte(`{"gap": {"$value": "8px", "$type": "dimension"}}`), "")
	require.NoError(t, err)

	res := reg.Resolve("--gap", registry.Context{}, nil)
	require.True(t, res.Resolved)
	assert.Equal(t, "8px", res.Value)
}
