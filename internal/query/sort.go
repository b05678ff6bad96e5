package query

import (
	"fmt"
	"strings"
)

// Sort is an ORDER BY clause built from whitelisted tokens only.
type Sort struct {
	column   string
	desc     bool
	tiebreak string
}

func (s Sort) String() string {
	if s.column == "" {
		return ""
	}
	dir := "ASC"
	if s.desc {
		dir = "DESC"
	}
	out := s.column + " " + dir
	if s.tiebreak != "" && s.tiebreak != s.column {
		out += ", " + s.tiebreak + " " + dir
	}
	return out
}

// Sorter maps public sort field names to SQL column expressions.
type Sorter struct {
	// Columns maps the field name a client sends to the column it sorts by.
	Columns map[string]string
	// Default is the field used when the client sends none.
	Default string
	// Tiebreak is a unique column appended so that pages are stable.
	Tiebreak string
}

// Resolve validates field and order against the whitelist. Empty values fall back to the
// default field and ascending order.
func (s Sorter) Resolve(field, order string) (Sort, error) {
	if field == "" {
		field = s.Default
	}
	col, ok := s.Columns[field]
	if !ok {
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSort, field)
	}

	var desc bool
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "", "ASC":
	case "DESC":
		desc = true
	default:
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	return Sort{column: col, desc: desc, tiebreak: s.Tiebreak}, nil
}
