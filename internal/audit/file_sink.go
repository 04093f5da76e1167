package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/Geeksfino/openskills/internal/audit/redaction"
)

// FileSink appends one newline-delimited JSON record per execution to an
// underlying writer, redacting stdout/stderr before persisting.
type FileSink struct {
	mu       sync.Mutex
	w        io.Writer
	redactor *redaction.Redactor
}

// NewFileSink wraps w. redactor may be nil, in which case stdout/stderr
// are persisted unscrubbed.
func NewFileSink(w io.Writer, redactor *redaction.Redactor) *FileSink {
	return &FileSink{w: w, redactor: redactor}
}

func (f *FileSink) Record(ctx context.Context, rec Record) error {
	if f.redactor != nil {
		rec.Stdout = f.redactor.Scrub(rec.Stdout)
		rec.Stderr = f.redactor.Scrub(rec.Stderr)
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	line = append(line, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()
	_, err = f.w.Write(line)
	return err
}
