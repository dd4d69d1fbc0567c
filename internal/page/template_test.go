package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate(t *testing.T) {
	g, err := NewTemplator(nil)
	require.NoError(t, err)

	html, err := g.Template(context.Background(), DefaultParams())
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, `data-model="nanobanana-pro"`)
	assert.Contains(t, body, `data-width="1536"`)
	assert.Contains(t, body, `data-height="1024"`)
	assert.Contains(t, body, `id="name" name="name" maxlength="60"`)
	assert.Contains(t, body, `maxlength="220"`)
	assert.Contains(t, body, `maxlength="140"`)
	assert.Contains(t, body, `placeholder="With love."`)
}

func TestTemplateEscapes(t *testing.T) {
	g := &Templator{}
	params := DefaultParams()
	params.Model = `"><script>`

	html, err := g.Template(context.Background(), params)
	require.NoError(t, err)
	assert.NotContains(t, string(html), `"><script>`)
}

func TestScript(t *testing.T) {
	js := string(Script())
	assert.Contains(t, js, "/api/generate")
	assert.Contains(t, js, "URL.revokeObjectURL")
	assert.Contains(t, js, "X-Seed")
}
