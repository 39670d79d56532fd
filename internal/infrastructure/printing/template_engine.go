package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/sales"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// Translator resolves message keys for a language
type Translator interface {
	T(lang, key string, args ...any) string
}

// TemplateData is what a document model template is executed with
type TemplateData struct {
	Doc  *sales.Document
	Lang string
}

// TemplateEngine renders documents with their PDF model. Each model is an
// html/template file named <model>.html.
type TemplateEngine struct {
	translator Translator
	models     map[string]*template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine) error

// WithTemplates adds or overrides models with the *.html files of dir in fsys
func WithTemplates(fsys fs.FS, dir string) TemplateEngineOption {
	return func(e *TemplateEngine) error {
		return e.load(fsys, dir)
	}
}

// NewTemplateEngine parses the built-in models then applies opts
func NewTemplateEngine(translator Translator, opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{
		translator: translator,
		models:     make(map[string]*template.Template),
	}
	if err := e.load(builtinTemplates, "templates"); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *TemplateEngine) load(fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("read template %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(e.funcMap("")).Parse(string(content))
		if err != nil {
			return NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+file, err)
		}
		e.models[name] = tmpl
	}
	return nil
}

// Models lists the available model names
func (e *TemplateEngine) Models() []string {
	names := make([]string, 0, len(e.models))
	for name := range e.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasModel reports whether model can be rendered
func (e *TemplateEngine) HasModel(model string) bool {
	_, ok := e.models[model]
	return ok
}

// Render executes model for doc in lang
func (e *TemplateEngine) Render(doc *sales.Document, model, lang string) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	base, ok := e.models[model]
	if !ok {
		return "", NewRenderError(ErrCodeUnknownModel, fmt.Sprintf("unknown document model %q", model), nil)
	}
	tmpl, err := base.Clone()
	if err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to clone template", err)
	}
	tmpl.Funcs(e.funcMap(lang))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{Doc: doc, Lang: lang}); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

func (e *TemplateEngine) funcMap(lang string) template.FuncMap {
	return template.FuncMap{
		"t": func(key string) string {
			if e.translator == nil {
				return key
			}
			return e.translator.T(lang, key)
		},
		"docTitle": docTitle,
		"money":    formatMoney,
		"qty":      formatQuantity,
		"percent":  formatPercent,
		"date":     formatDate,
	}
}

func docTitle(m sales.Mode) string {
	switch m {
	case sales.ModeOrder:
		return "Order"
	case sales.ModeProposal:
		return "Proposal"
	case sales.ModeShipment:
		return "Shipment"
	default:
		return "Invoice"
	}
}

// formatMoney prints two decimals with thousands separators: 1234.5 -> "1,234.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var sb strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	return sign + sb.String() + "." + decPart
}

// formatQuantity drops trailing zeros: 2.500 -> "2.5"
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

func formatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
