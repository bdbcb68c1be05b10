// Package rows turns upstream records into flat, ordered table rows.
package rows

// Field is one column of a row. A nil Value is written as SQL NULL.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered set of columns. Rows that go into the same table must
// carry the same columns in the same order.
type Row []Field

// Columns returns the column names in order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// Get returns the value stored under column.
func (r Row) Get(column string) (any, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// Table is a named batch of rows sharing one schema.
type Table struct {
	Name string
	Rows []Row
}
