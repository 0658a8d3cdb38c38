// Package sqlutil provides SQL literal helpers shared by the compiler.
package sqlutil

import (
	"strconv"
	"strings"
)

// QuoteString quotes a SQL string literal with single quotes and escapes
// any single quotes within the string by doubling them.
func QuoteString(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	return "'" + escaped + "'"
}

// IsNumericLiteral reports whether a raw filter value can be emitted as an
// unquoted numeric literal. This is a heuristic over the value text, not a
// schema-aware type check: "42" and "4.2e1" are numeric, "paid" and "" are
// not.
func IsNumericLiteral(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// RenderValue renders a comparison operand: numeric values pass through
// unquoted, everything else becomes a single-quoted string literal.
func RenderValue(s string) string {
	if IsNumericLiteral(s) {
		return s
	}
	return QuoteString(s)
}
