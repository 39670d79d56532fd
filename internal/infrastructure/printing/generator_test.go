package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/internal/infrastructure/storage"
)

func newTestGenerator(t *testing.T, r Renderer) (*Generator, storage.FileStore) {
	t.Helper()
	store, err := storage.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	engine, err := NewTemplateEngine(prefixTranslator{})
	require.NoError(t, err)
	return NewGenerator(engine, r, store, DefaultPaper, nil), store
}

func TestGenerator_Generate(t *testing.T) {
	r := &fakeRenderer{}
	g, store := newTestGenerator(t, r)
	ctx := context.Background()

	key, err := g.Generate(ctx, sampleDocument(), "", "fr-FR")
	require.NoError(t, err)
	assert.Equal(t, sampleTenantID.String()+"/invoices/FA2609-0001/FA2609-0001.pdf", key)

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, r.requests, 1)
	req := r.requests[0]
	assert.Equal(t, "FA2609-0001", req.Title)
	assert.Equal(t, DefaultPaper, req.Paper)
	assert.Contains(t, req.HTML, "fr-FR:Invoice")
	assert.Contains(t, req.FooterHTML, "pageNumber")
}

func TestGenerator_ResolveModel(t *testing.T) {
	g, _ := newTestGenerator(t, &fakeRenderer{})
	doc := sampleDocument()

	assert.Equal(t, "standard", g.ResolveModel(doc, ""))
	doc.ModelPDF = "compact"
	assert.Equal(t, "compact", g.ResolveModel(doc, ""))
	assert.Equal(t, "standard", g.ResolveModel(doc, "standard"))

	g = NewGenerator(g.engine, g.renderer, g.store, DefaultPaper, nil, WithDefaultModel("compact"))
	assert.Equal(t, "compact", g.ResolveModel(sampleDocument(), ""))
}

func TestGenerator_Failures(t *testing.T) {
	ctx := context.Background()

	g, store := newTestGenerator(t, &fakeRenderer{err: errors.New("chrome crashed")})
	_, err := g.Generate(ctx, sampleDocument(), "", "en-US")
	assert.ErrorContains(t, err, "chrome crashed")
	ok, err := store.Exists(ctx, sampleDocument().FileKey())
	require.NoError(t, err)
	assert.False(t, ok)

	g, _ = newTestGenerator(t, &fakeRenderer{})
	_, err = g.Generate(ctx, sampleDocument(), "unknown", "en-US")
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeUnknownModel, rerr.Code)

	_, err = g.Generate(ctx, nil, "", "en-US")
	assert.Error(t, err)
}
