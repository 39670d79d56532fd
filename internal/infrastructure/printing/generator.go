package printing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/infrastructure/storage"
)

const pdfContentType = "application/pdf"

// pageFooter numbers pages; Chrome fills the pageNumber and totalPages spans
const pageFooter = `<div style="font-size:7pt;width:100%;text-align:center;color:#666;">` +
	`<span class="title"></span> - <span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// Generator renders documents to PDF and stores them under their file key
type Generator struct {
	engine       *TemplateEngine
	renderer     Renderer
	store        storage.FileStore
	paper        PaperFormat
	margins      Margins
	defaultModel string
	logger       *zap.Logger
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithDefaultModel sets the model used when neither the caller nor the document names one
func WithDefaultModel(model string) GeneratorOption {
	return func(g *Generator) {
		if model != "" {
			g.defaultModel = model
		}
	}
}

// WithMargins overrides DefaultMargins
func WithMargins(m Margins) GeneratorOption {
	return func(g *Generator) { g.margins = m }
}

// NewGenerator wires a generator
func NewGenerator(engine *TemplateEngine, renderer Renderer, store storage.FileStore, paper PaperFormat, logger *zap.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		engine:       engine,
		renderer:     renderer,
		store:        store,
		paper:        paper,
		margins:      DefaultMargins(),
		defaultModel: "standard",
		logger:       logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Paper returns the page format documents are printed with
func (g *Generator) Paper() PaperFormat {
	return g.paper
}

// ResolveModel picks model, then the document's own model, then the default
func (g *Generator) ResolveModel(doc *sales.Document, model string) string {
	switch {
	case model != "":
		return model
	case doc != nil && doc.ModelPDF != "":
		return doc.ModelPDF
	default:
		return g.defaultModel
	}
}

// Generate renders doc with model in lang and stores the PDF. It returns the storage key.
func (g *Generator) Generate(ctx context.Context, doc *sales.Document, model, lang string) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	model = g.ResolveModel(doc, model)

	html, err := g.engine.Render(doc, model, lang)
	if err != nil {
		return "", err
	}

	res, err := g.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Paper:      g.paper,
		Margins:    g.margins,
		Title:      doc.Ref,
		FooterHTML: pageFooter,
	})
	if err != nil {
		return "", err
	}

	key := doc.FileKey()
	if err := g.store.Put(ctx, key, res.PDFData, pdfContentType); err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, fmt.Sprintf("failed to store %s", key), err)
	}

	g.logger.Info("document PDF generated",
		zap.String("ref", doc.Ref),
		zap.String("mode", string(doc.Mode)),
		zap.String("model", model),
		zap.String("lang", lang),
		zap.String("key", key),
		zap.Int("bytes", len(res.PDFData)))
	return key, nil
}
