package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DocumentMetrics counts PDF batch activity
type DocumentMetrics struct {
	generated metric.Int64Counter
	failures  metric.Int64Counter
	merges    metric.Int64Counter
	pages     metric.Int64Histogram
}

// NewDocumentMetrics registers the instruments on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	m := &DocumentMetrics{}
	var err error
	if m.generated, err = meter.Int64Counter("documents.pdf.generated",
		metric.WithDescription("PDF files generated"), metric.WithUnit("{file}")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter("documents.pdf.failures",
		metric.WithDescription("PDF files that could not be generated"), metric.WithUnit("{file}")); err != nil {
		return nil, err
	}
	if m.merges, err = meter.Int64Counter("documents.merge.runs",
		metric.WithDescription("Merge batches by outcome"), metric.WithUnit("{run}")); err != nil {
		return nil, err
	}
	if m.pages, err = meter.Int64Histogram("documents.merge.pages",
		metric.WithDescription("Pages in merged files"), metric.WithUnit("{page}")); err != nil {
		return nil, err
	}
	return m, nil
}

// Generated counts a generated file for mode
func (m *DocumentMetrics) Generated(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	m.generated.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// Failed counts a generation failure for mode
func (m *DocumentMetrics) Failed(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// Merged records a finished batch; pages is only recorded for written files
func (m *DocumentMetrics) Merged(ctx context.Context, mode, outcome string, pages int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("mode", mode), attribute.String("outcome", outcome))
	m.merges.Add(ctx, 1, attrs)
	if pages > 0 {
		m.pages.Record(ctx, int64(pages), metric.WithAttributes(attribute.String("mode", mode)))
	}
}
