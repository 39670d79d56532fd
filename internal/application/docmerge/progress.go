package docmerge

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// progress reports batch steps to a writer, or to the logger when there is none
type progress struct {
	w      io.Writer
	logger *zap.Logger
}

func (p *progress) line(msg string) {
	if p.w != nil {
		fmt.Fprintln(p.w, msg)
		return
	}
	p.logger.Debug(msg)
}

func (p *progress) fail(msg string, err error) {
	if p.w != nil {
		fmt.Fprintln(p.w, msg)
		return
	}
	p.logger.Error(msg, zap.Error(err))
}
