package tablewriter

import (
	"context"
)

// TableWriter persists the SQL text generated for one table. Writing the same
// table twice replaces the earlier content.
type TableWriter interface {
	// Write stores sqlText under tableName.
	Write(ctx context.Context, tableName, sqlText string) error
}

// FileName is the artifact name used for a table by every backend.
func FileName(tableName string) string {
	return tableName + ".sql"
}
