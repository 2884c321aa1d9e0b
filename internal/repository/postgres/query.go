package postgres

import (
	"fmt"
	"strings"
)

// activePredicate restricts every read and write to rows that are not soft-deleted.
const activePredicate = "deleted_at IS NULL"

const userColumns = "id, name, email, age, created_at, updated_at, deleted_at"

type condition struct {
	column   string
	operator string
	value    any
}

// conditions accumulates bound (column, operator, value) triples.
// Values are always emitted as numbered placeholders, never into the query text.
type conditions struct {
	items []condition
}

func (c *conditions) add(column, operator string, value any) {
	c.items = append(c.items, condition{column: column, operator: operator, value: value})
}

// render returns one "column op $n" term per condition, numbering placeholders from offset+1.
func (c *conditions) render(offset int) ([]string, []any) {
	terms := make([]string, 0, len(c.items))
	args := make([]any, 0, len(c.items))
	for i, item := range c.items {
		terms = append(terms, fmt.Sprintf("%s %s $%d", item.column, item.operator, offset+i+1))
		args = append(args, item.value)
	}
	return terms, args
}

// where renders a WHERE clause that always includes the active predicate.
func (c *conditions) where(offset int) (string, []any) {
	terms, args := c.render(offset)
	return "WHERE " + strings.Join(append([]string{activePredicate}, terms...), " AND "), args
}

// set renders the assignment list of an UPDATE statement.
func (c *conditions) set(offset int) (string, []any) {
	terms, args := c.render(offset)
	return strings.Join(terms, ", "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
