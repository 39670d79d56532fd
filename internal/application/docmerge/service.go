// Package docmerge rebuilds the PDF files of a selection of documents and
// concatenates them into a single file.
package docmerge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/printing"
	"github.com/openbiz/backend/internal/infrastructure/storage"
	"github.com/openbiz/backend/internal/infrastructure/telemetry"
)

// Result codes returned by RebuildMerge
const (
	ResultError   = -1
	ResultEmpty   = 0
	ResultSuccess = 1
)

// DocumentGenerator renders and stores the PDF of a document
type DocumentGenerator interface {
	Generate(ctx context.Context, doc *sales.Document, model, lang string) (string, error)
}

// PDFMerger concatenates PDF files
type PDFMerger interface {
	Merge(files [][]byte) ([]byte, int, error)
}

// LanguageSupport tells whether an output language has a catalog
type LanguageSupport interface {
	Supports(lang string) bool
}

// Report describes a finished batch
type Report struct {
	Code      int      `json:"code"`
	Documents int      `json:"documents"`
	Generated int      `json:"generated"`
	Reused    int      `json:"reused"`
	Failed    []string `json:"failed,omitempty"`
	Output    string   `json:"output,omitempty"`
	Pages     int      `json:"pages"`
	Written   bool     `json:"written"`

	errs []error
}

// Err joins every error met during the batch
func (r *Report) Err() error {
	return errors.Join(r.errs...)
}

func (r *Report) fail(ref string, err error) {
	if ref != "" {
		r.Failed = append(r.Failed, ref)
	}
	r.errs = append(r.errs, err)
}

// Service runs rebuild batches
type Service struct {
	docs            sales.DocumentRepository
	generator       DocumentGenerator
	merger          PDFMerger
	store           storage.FileStore
	languages       LanguageSupport
	paper           printing.PaperFormat
	defaultLanguage string
	metrics         *telemetry.DocumentMetrics
	logger          *zap.Logger
}

// Config carries the collaborators of a Service
type Config struct {
	Documents       sales.DocumentRepository
	Generator       DocumentGenerator
	Merger          PDFMerger
	Store           storage.FileStore
	Languages       LanguageSupport
	Paper           printing.PaperFormat
	DefaultLanguage string
	Metrics         *telemetry.DocumentMetrics
	Logger          *zap.Logger
}

// NewService creates a Service
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Paper.Name == "" {
		cfg.Paper = printing.DefaultPaper
	}
	return &Service{
		docs:            cfg.Documents,
		generator:       cfg.Generator,
		merger:          cfg.Merger,
		store:           cfg.Store,
		languages:       cfg.Languages,
		paper:           cfg.Paper,
		defaultLanguage: cfg.DefaultLanguage,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
}

// RebuildMerge runs a batch and returns 1 on success, 0 when nothing matched
// and -1 when anything failed. With DoNotMerge the code is 1 once every
// document was attempted; failed documents are still reported in the error.
func (s *Service) RebuildMerge(ctx context.Context, tenantID uuid.UUID, opts Options) (int, error) {
	report, err := s.Rebuild(ctx, tenantID, opts)
	if err != nil {
		return ResultError, err
	}
	return report.Code, report.Err()
}

// Rebuild runs a batch and returns its report. The error is only set when the
// batch could not start; per-document failures are collected in the report.
func (s *Service) Rebuild(ctx context.Context, tenantID uuid.UUID, opts Options) (_ *Report, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document_merge", "rebuild",
		attribute.String("mode", string(opts.Mode)),
		attribute.String("tenant_id", tenantID.String()))
	defer telemetry.End(span, &err)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lang := opts.Language
	if lang == "" {
		lang = s.defaultLanguage
	} else if s.languages != nil && !s.languages.Supports(lang) {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported language %q", lang))
	}

	p := &progress{w: opts.Progress, logger: s.logger.With(zap.String("mode", string(opts.Mode)))}
	p.line("--- start")

	refs, err := s.docs.Select(ctx, tenantID, opts.Selection())
	if err != nil {
		p.fail("selection failed", err)
		return nil, fmt.Errorf("select documents: %w", err)
	}

	report := &Report{Documents: len(refs)}
	if len(refs) == 0 {
		p.line("No invoices found for criteria.")
		report.Code = ResultEmpty
		s.metrics.Merged(ctx, string(opts.Mode), "empty", 0)
		return report, nil
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		key, err := s.rebuildOne(ctx, tenantID, opts, lang, ref, report, p)
		if err != nil {
			report.fail(ref.Ref, err)
			s.metrics.Failed(ctx, string(opts.Mode))
			p.fail(fmt.Sprintf("Error: Failed to build PDF for document %s", ref.Ref), err)
			continue
		}
		keys = append(keys, key)
	}
	span.SetAttributes(attribute.Int("documents", report.Documents), attribute.Int("failed", len(report.Failed)))

	if opts.DoNotMerge {
		// Regeneration failures stay in the report; the batch itself succeeded.
		report.Code = ResultSuccess
		s.metrics.Merged(ctx, string(opts.Mode), "skipped", 0)
		return report, nil
	}

	s.merge(ctx, tenantID, opts, keys, report, p)
	report.Code = ResultSuccess
	if len(report.errs) > 0 {
		report.Code = ResultError
	}
	return report, nil
}

// rebuildOne makes sure the PDF of ref exists and returns its key
func (s *Service) rebuildOne(ctx context.Context, tenantID uuid.UUID, opts Options, lang string, ref sales.DocumentRef, report *Report, p *progress) (string, error) {
	doc, err := s.docs.Fetch(ctx, tenantID, opts.Mode, ref.ID)
	if err != nil {
		return "", err
	}
	key := doc.FileKey()

	exists := false
	if opts.Regenerate == "" {
		if exists, err = s.store.Exists(ctx, key); err != nil {
			return "", err
		}
	}
	if exists {
		p.line(fmt.Sprintf("PDF for document %s already exists", doc.Ref))
		report.Reused++
		return key, nil
	}

	p.line(fmt.Sprintf("Build PDF for document %s - Lang = %s", doc.Ref, lang))
	if _, err := s.generator.Generate(ctx, doc, opts.Regenerate, lang); err != nil {
		return "", err
	}
	report.Generated++
	s.metrics.Generated(ctx, string(opts.Mode))
	return key, nil
}

func (s *Service) merge(ctx context.Context, tenantID uuid.UUID, opts Options, keys []string, report *Report, p *progress) {
	p.line(fmt.Sprintf("Using output PDF format %s", s.paper))

	files := make([][]byte, 0, len(keys))
	for _, key := range keys {
		p.line(fmt.Sprintf("Merge PDF file for invoice %s", key))
		data, err := s.store.Get(ctx, key)
		if err != nil {
			report.fail("", fmt.Errorf("read %s: %w", key, err))
			continue
		}
		files = append(files, data)
	}

	out := opts.OutputKey(tenantID)
	report.Output = out

	var merged []byte
	if len(report.errs) == 0 {
		var err error
		merged, report.Pages, err = s.merger.Merge(files)
		if err != nil {
			report.fail("", fmt.Errorf("merge: %w", err))
		}
	}

	if len(report.errs) == 0 && report.Pages > 0 {
		if err := s.store.Put(ctx, out, merged, "application/pdf"); err != nil {
			report.fail("", fmt.Errorf("write %s: %w", out, err))
		} else {
			report.Written = true
		}
	}

	if len(report.errs) == 0 {
		p.line(fmt.Sprintf("Merged PDF has been built in %s", out))
		s.metrics.Merged(ctx, string(opts.Mode), "merged", report.Pages)
		return
	}
	p.fail(fmt.Sprintf("Can't build PDF %s", out), report.Err())
	s.metrics.Merged(ctx, string(opts.Mode), "failed", 0)
}
