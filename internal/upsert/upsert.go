// Package upsert renders row batches as MySQL insert-or-update statements.
package upsert

import (
	"strings"

	"github.com/dvloznov/finsync/internal/rows"
)

// KeyColumn is the primary key every table is upserted on. It is never
// part of the update clause.
const KeyColumn = "id"

// Serialize renders rows as a single statement against table:
//
//	INSERT INTO `t` (`id`, `name`) VALUES
//	(1, "a"),
//	(2, "b")
//	ON DUPLICATE KEY UPDATE `name`=VALUES(`name`);
//
// The first row decides the column list. Later rows are read by column name
// and a column they lack is written as NULL. No rows yields "".
func Serialize(table string, batch []rows.Row) string {
	if len(batch) == 0 {
		return ""
	}

	columns := batch[0].Columns()

	var updates []string
	for _, col := range columns {
		if col == KeyColumn {
			continue
		}
		updates = append(updates, QuoteIdentifier(col)+"=VALUES("+QuoteIdentifier(col)+")")
	}

	var b strings.Builder
	if len(updates) == 0 {
		b.WriteString("INSERT IGNORE INTO ")
	} else {
		b.WriteString("INSERT INTO ")
	}
	b.WriteString(QuoteIdentifier(table))
	b.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteIdentifier(col))
	}
	b.WriteString(") VALUES\n")

	for i, row := range batch {
		b.WriteByte('(')
		for j, col := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Literal(valueAt(row, j, col)))
		}
		b.WriteByte(')')
		if i < len(batch)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	if len(updates) == 0 {
		// drop the trailing newline so the terminator sits on the last tuple
		out := strings.TrimSuffix(b.String(), "\n")
		return out + ";"
	}

	b.WriteString("ON DUPLICATE KEY UPDATE ")
	b.WriteString(strings.Join(updates, ", "))
	b.WriteByte(';')
	return b.String()
}

// Statement pairs a table with its rows.
type Statement rows.Table

// String renders the statement with Serialize.
func (s Statement) String() string {
	return Serialize(s.Name, s.Rows)
}

// valueAt reads col from row, taking the positional fast path when the row
// has the same layout as the first one.
func valueAt(row rows.Row, i int, col string) any {
	if i < len(row) && row[i].Column == col {
		return row[i].Value
	}
	v, _ := row.Get(col)
	return v
}
