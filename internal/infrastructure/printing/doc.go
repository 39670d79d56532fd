// Package printing turns business documents into PDF files and merges PDF files.
//
// This package contains:
// - Renderer, converting HTML to PDF with a headless Chrome (ChromedpRenderer)
// - TemplateEngine, rendering the per-model HTML templates of a document
// - Generator, rendering a document and storing its PDF in a storage.FileStore
// - Merger, concatenating PDF files with pdfcpu
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	gen := NewGenerator(NewTemplateEngine(translator), renderer, store, paper, logger)
//	key, err := gen.Generate(ctx, doc, "standard", "fr-FR")
package printing
