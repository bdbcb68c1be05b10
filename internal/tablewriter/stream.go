package tablewriter

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// StreamWriter prints every table to one io.Writer, each preceded by a
// "-- <table>" comment line. Used for dry runs.
type StreamWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStreamWriter creates a StreamWriter on out.
func NewStreamWriter(out io.Writer) *StreamWriter {
	return &StreamWriter{out: out}
}

// Write implements TableWriter. Concurrent syncs share the stream, so whole
// tables are written under a lock.
func (w *StreamWriter) Write(ctx context.Context, tableName, sqlText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.out, "-- %s\n%s\n\n", tableName, sqlText); err != nil {
		return fmt.Errorf("StreamWriter.Write: %s: %w", tableName, err)
	}
	return nil
}

var _ TableWriter = (*StreamWriter)(nil)
