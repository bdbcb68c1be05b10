package upsert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Null is the SQL null literal.
const Null = "NULL"

var stringEscaper = strings.NewReplacer(
	"\\", `\\`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
	`"`, `\"`,
	"'", `\'`,
)

// QuoteIdentifier wraps name in backticks, doubling any backtick inside it.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteString renders s as a double-quoted MySQL string literal.
func QuoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// Literal renders a row value as SQL. Values that have no literal form of
// their own are formatted with fmt and quoted as strings.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return Null
	case string:
		return QuoteString(val)
	case *string:
		if val == nil {
			return Null
		}
		return QuoteString(*val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case decimal.Decimal:
		return val.String()
	case decimal.NullDecimal:
		if !val.Valid {
			return Null
		}
		return val.Decimal.String()
	case civil.Date:
		if val.IsZero() {
			return Null
		}
		return QuoteString(val.String())
	case *civil.Date:
		if val == nil || val.IsZero() {
			return Null
		}
		return QuoteString(val.String())
	}

	// other pointers: NULL when nil, otherwise whatever they point at
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null
		}
		return Literal(rv.Elem().Interface())
	}
	if s, ok := v.(fmt.Stringer); ok {
		return QuoteString(s.String())
	}
	return QuoteString(fmt.Sprint(v))
}

// formatFloat writes plain decimal notation. NaN and infinities have no SQL
// literal and become NULL.
func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
