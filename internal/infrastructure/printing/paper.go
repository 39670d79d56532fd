package printing

import (
	"fmt"
	"strings"

	"github.com/openbiz/backend/internal/infrastructure/config"
)

// PaperFormat is a page size in millimeters
type PaperFormat struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var paperFormats = map[string]PaperFormat{
	"A3":     {Name: "A3", WidthMM: 297, HeightMM: 420},
	"A4":     {Name: "A4", WidthMM: 210, HeightMM: 297},
	"A5":     {Name: "A5", WidthMM: 148, HeightMM: 210},
	"LETTER": {Name: "Letter", WidthMM: 215.9, HeightMM: 279.4},
	"LEGAL":  {Name: "Legal", WidthMM: 215.9, HeightMM: 355.6},
}

// DefaultPaper is used when nothing is configured
var DefaultPaper = paperFormats["A4"]

// ParsePaperFormat resolves a named format, or a custom one from explicit dimensions
func ParsePaperFormat(name string, widthMM, heightMM float64) (PaperFormat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPaper, nil
	}
	if strings.EqualFold(name, "custom") {
		if widthMM <= 0 || heightMM <= 0 {
			return PaperFormat{}, NewRenderError(ErrCodeInvalidPaperSize,
				fmt.Sprintf("custom paper size needs positive dimensions, got %gx%g", widthMM, heightMM), nil)
		}
		return PaperFormat{Name: "custom", WidthMM: widthMM, HeightMM: heightMM}, nil
	}
	if p, ok := paperFormats[strings.ToUpper(name)]; ok {
		return p, nil
	}
	return PaperFormat{}, NewRenderError(ErrCodeInvalidPaperSize, "unknown paper size: "+name, nil)
}

// PaperFromConfig returns the configured page format
func PaperFromConfig(cfg config.DocumentsConfig) (PaperFormat, error) {
	return ParsePaperFormat(cfg.PaperSize, cfg.PaperWidthMM, cfg.PaperHeightMM)
}

// String returns the size as "WxH" in millimeters
func (p PaperFormat) String() string {
	return fmt.Sprintf("%gx%g", p.WidthMM, p.HeightMM)
}

// WidthInches returns the page width in inches, the unit Chrome prints with
func (p PaperFormat) WidthInches() float64 { return mmToInches(p.WidthMM) }

// HeightInches returns the page height in inches
func (p PaperFormat) HeightInches() float64 { return mmToInches(p.HeightMM) }

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
