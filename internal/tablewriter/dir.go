package tablewriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirWriter writes each table to <Dir>/<table>.sql.
type DirWriter struct {
	Dir string
}

// NewDirWriter creates a DirWriter rooted at dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Dir: dir}
}

// Write implements TableWriter. The directory is created when missing.
func (w *DirWriter) Write(ctx context.Context, tableName, sqlText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("DirWriter.Write: create dir %q: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, FileName(tableName))
	if err := os.WriteFile(path, []byte(sqlText), 0o644); err != nil {
		return fmt.Errorf("DirWriter.Write: write %q: %w", path, err)
	}

	return nil
}

var _ TableWriter = (*DirWriter)(nil)
