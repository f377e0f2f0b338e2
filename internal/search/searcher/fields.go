package searcher

import "strings"

// Field is a set of action properties a query is matched against.
type Field uint8

const (
	// FieldName matches the action name in every language.
	FieldName Field = 1 << iota

	// FieldToolTip matches the tooltip in every language.
	FieldToolTip

	// FieldPath matches the path of display names (e.g. "Edit/Copy").
	FieldPath

	// FieldID matches the full action ID.
	FieldID

	// FieldKeySequence matches the bound key sequence text.
	FieldKeySequence

	// FieldNone matches nothing.
	FieldNone Field = 0

	// DefaultFields are matched by a new Searcher.
	DefaultFields = FieldName | FieldToolTip
)

var fieldNames = []struct {
	field Field
	name  string
}{
	{FieldName, "name"},
	{FieldToolTip, "tooltip"},
	{FieldPath, "path"},
	{FieldID, "id"},
	{FieldKeySequence, "keys"},
}

// Has reports whether f includes every field of other.
func (f Field) Has(other Field) bool {
	return f&other == other
}

// String returns the field names joined by "|".
func (f Field) String() string {
	var parts []string
	for _, fn := range fieldNames {
		if f.Has(fn.field) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFields parses a comma or "|" separated list of field names.
// Unknown names are returned separately.
func ParseFields(s string) (Field, []string) {
	var f Field
	var unknown []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for _, fn := range fieldNames {
			if fn.name == part {
				f |= fn.field
				found = true
				break
			}
		}
		if !found && part != "" {
			unknown = append(unknown, part)
		}
	}
	return f, unknown
}
