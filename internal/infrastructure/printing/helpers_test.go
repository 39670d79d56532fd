package printing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/sales"
)

// minimalPDF builds a valid PDF with the given number of empty A4 pages
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

type fakeRenderer struct {
	requests []*RenderRequest
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &RenderResult{PDFData: minimalPDF(1), RenderDuration: time.Millisecond}, nil
}

func (f *fakeRenderer) Close() error { return nil }

type prefixTranslator struct{}

func (prefixTranslator) T(lang, key string, _ ...any) string {
	return lang + ":" + key
}

var sampleTenantID = uuid.MustParse("9a3b5c7d-1e2f-4a6b-8c0d-2e4f6a8b0c1d")

func sampleDocument() *sales.Document {
	return &sales.Document{
		ID:       uuid.New(),
		TenantID: sampleTenantID,
		Mode:     sales.ModeInvoice,
		Ref:      "FA2609-0001",
		Status:   sales.StatusValidated,
		Date:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Note:     "Payable <30 days>",
		ThirdParty: sales.ThirdParty{
			Name:    "Acme & Sons",
			Address: "1 rue de la Paix",
		},
		Lines: []sales.DocumentLine{{
			Description: "Consulting",
			Quantity:    decimal.RequireFromString("2.50"),
			UnitPrice:   decimal.RequireFromString("1000"),
			VATRate:     decimal.RequireFromString("20"),
			TotalHT:     decimal.RequireFromString("2500"),
			TotalTVA:    decimal.RequireFromString("500"),
			TotalTTC:    decimal.RequireFromString("3000"),
		}},
		TotalHT:  decimal.RequireFromString("2500"),
		TotalTVA: decimal.RequireFromString("500"),
		TotalTTC: decimal.RequireFromString("3000"),
	}
}
