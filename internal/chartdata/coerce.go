package chartdata

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// coerceNumber converts an untyped cell to a float64. The bool result
// distinguishes a true numeric value from a missing or non-numeric cell,
// which both coerce to 0 in chart output; tests and debug logging use the
// distinction even though renderers cannot.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case []byte:
		return parseNumeric(string(n))
	case string:
		return parseNumeric(n)
	default:
		return 0, false
	}
}

func parseNumeric(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numberOrZero is the coercion charts render with: missing and non-numeric
// cells collapse to 0. Non-numeric cells usually mean a misassigned column
// role, so they are logged at debug level; nil cells are routine NULLs and
// stay quiet.
func numberOrZero(v any) float64 {
	f, ok := coerceNumber(v)
	if !ok && v != nil {
		slog.Debug("non-numeric cell coerced to zero",
			slog.String("cell_type", fmt.Sprintf("%T", v)),
		)
	}
	return f
}
