package store

import "fmt"

// Document field names as written by the table-side clients.
const (
	FieldStatus      = "status"
	FieldPaidAt      = "paidAt"
	FieldDismissedAt = "dismissedAt"
	FieldNotes       = "notes"
)

var orderColumns = map[string]string{
	FieldStatus: "status",
	FieldPaidAt: "paid_at",
	FieldNotes:  "notes",
}

var requestColumns = map[string]string{
	FieldStatus:      "status",
	FieldDismissedAt: "dismissed_at",
}

// toColumns maps document field names onto table columns.
func toColumns(collection string, fields map[string]any, columns map[string]string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty update for %s", collection)
	}
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, collection, name)
		}
		out[col] = value
	}
	return out, nil
}
