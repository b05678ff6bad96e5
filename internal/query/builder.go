// Package query assembles list statements from typed clauses so that filter values always
// travel as bind parameters and sort tokens only ever come from a whitelist.
package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSort  = errors.New("unsupported sort field")
	ErrInvalidOrder = errors.New("sort order must be ASC or DESC")
	ErrNoSource     = errors.New("statement has no FROM source")
	ErrPlaceholders = errors.New("placeholder count does not match argument count")
)

// Statement is a list query and its matching count query. Both share Args positionally.
type Statement struct {
	Base  string
	Count string
	Args  []any
}

// Builder accumulates the parts of a list statement. The zero value is not usable; start
// with Select.
type Builder struct {
	columns   []string
	from      string
	preds     []string
	args      []any
	groupBy   []string
	orderBy   string
	countExpr string
	err       error
}

// Select starts a statement selecting cols.
func Select(cols ...string) *Builder {
	return &Builder{columns: cols, countExpr: "COUNT(*)"}
}

// From sets the FROM source, joins included.
func (b *Builder) From(src string) *Builder {
	b.from = src
	return b
}

// Where adds a predicate. Each ? in cond is replaced by the next $n placeholder and bound to
// the matching arg.
func (b *Builder) Where(cond string, args ...any) *Builder {
	if strings.Count(cond, "?") != len(args) {
		b.setErr(fmt.Errorf("%w: %q", ErrPlaceholders, cond))
		return b
	}

	var sb strings.Builder
	next := 0
	for _, r := range cond {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		b.args = append(b.args, args[next])
		next++
		fmt.Fprintf(&sb, "$%d", len(b.args))
	}
	b.preds = append(b.preds, sb.String())
	return b
}

// Search adds a case-insensitive substring match of term against any of cols.
// One bind value is shared by the whole OR group. A blank term adds nothing.
func (b *Builder) Search(term string, cols ...string) *Builder {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return b
	}
	b.args = append(b.args, "%"+escapeLike(term)+"%")
	ph := fmt.Sprintf("$%d", len(b.args))

	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + ph
	}
	b.preds = append(b.preds, "("+strings.Join(parts, " OR ")+")")
	return b
}

// GroupBy sets the GROUP BY columns of the base query.
func (b *Builder) GroupBy(cols ...string) *Builder {
	b.groupBy = cols
	return b
}

// OrderBy sets a sort resolved by a Sorter.
func (b *Builder) OrderBy(s Sort) *Builder {
	b.orderBy = s.String()
	return b
}

// CountExpr replaces COUNT(*) in the count query, e.g. COUNT(DISTINCT t.title_id) for
// grouped joins.
func (b *Builder) CountExpr(expr string) *Builder {
	b.countExpr = expr
	return b
}

// Build renders the base and count statements.
func (b *Builder) Build() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	if b.from == "" {
		return Statement{}, ErrNoSource
	}

	where := ""
	if len(b.preds) > 0 {
		where = " WHERE " + strings.Join(b.preds, " AND ")
	}

	var base strings.Builder
	base.WriteString("SELECT ")
	base.WriteString(strings.Join(b.columns, ", "))
	base.WriteString(" FROM ")
	base.WriteString(b.from)
	base.WriteString(where)
	if len(b.groupBy) > 0 {
		base.WriteString(" GROUP BY ")
		base.WriteString(strings.Join(b.groupBy, ", "))
	}
	if b.orderBy != "" {
		base.WriteString(" ORDER BY ")
		base.WriteString(b.orderBy)
	}

	count := "SELECT " + b.countExpr + " AS count FROM " + b.from + where

	args := make([]any, len(b.args))
	copy(args, b.args)
	return Statement{Base: base.String(), Count: count, Args: args}, nil
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
