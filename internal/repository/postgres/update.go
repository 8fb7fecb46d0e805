package postgres

import (
	"strconv"
	"strings"
)

// setBuilder assembles an UPDATE statement from the columns a patch touches.
type setBuilder struct {
	clauses []string
	args    []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, column+" = $"+strconv.Itoa(len(b.args)))
}

func (b *setBuilder) raw(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *setBuilder) build(table string, id int64, returning string) (string, []any) {
	args := append(b.args, id)
	query := "UPDATE " + table + " SET " + strings.Join(b.clauses, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + returning
	return query, args
}
