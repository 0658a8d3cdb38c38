package schema

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// DisplayName converts a SQL identifier to a human-readable label for the
// builder UI. Example: "order_items" -> "Order Items".
func DisplayName(identifier string) string {
	parts := strings.Split(identifier, "_")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}

// SingularDisplayName converts a table name to a singular human-readable
// label. Example: "order_items" -> "Order Item".
func SingularDisplayName(tableName string) string {
	return DisplayName(inflection.Singular(tableName))
}

// PluralDisplayName converts a table name to a plural human-readable label.
// Example: "person" -> "People".
func PluralDisplayName(tableName string) string {
	return DisplayName(inflection.Plural(tableName))
}
