package printing

import (
	"bytes"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Merger concatenates PDF files. Source page sizes are kept.
type Merger struct{}

// NewMerger returns a pdfcpu backed merger. pdfcpu's user configuration
// directory is never read or created.
func NewMerger() *Merger {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Merger{}
}

func (m *Merger) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages of a PDF file
func (m *Merger) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), m.config())
	if err != nil {
		return 0, NewRenderError(ErrCodeMergeFailed, "failed to read PDF", err)
	}
	return n, nil
}

// Merge concatenates files in order and returns the result with its page count
func (m *Merger) Merge(files [][]byte) ([]byte, int, error) {
	if len(files) == 0 {
		return nil, 0, nil
	}
	readers := make([]io.ReadSeeker, len(files))
	for i, f := range files {
		readers[i] = bytes.NewReader(f)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.config()); err != nil {
		return nil, 0, NewRenderError(ErrCodeMergeFailed, "failed to merge PDF files", err)
	}
	pages, err := m.PageCount(out.Bytes())
	if err != nil {
		return nil, 0, err
	}
	return out.Bytes(), pages, nil
}
