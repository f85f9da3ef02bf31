package sqlbuilder

import (
	"fmt"
	"strings"
	"time"
)

// SearchQuery accumulates WHERE clauses and their positional arguments. The
// same instance renders the count, paged and unpaged statements, so all three
// always filter identically.
type SearchQuery struct {
	from    string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewSearchQuery creates a query over from (a table or join expression)
// selecting cols.
func NewSearchQuery(from, cols string) *SearchQuery {
	return &SearchQuery{
		from: from,
		cols: cols,
		idx:  1,
	}
}

// Idx returns the next available parameter index.
func (q *SearchQuery) Idx() int { return q.idx }

// Add appends a raw WHERE clause fragment (without leading "AND").
func (q *SearchQuery) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddEquals adds column = value.
func (q *SearchQuery) AddEquals(column string, value interface{}) {
	q.Add(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// AddContains adds a case-insensitive substring match. LIKE wildcards in
// value are matched literally.
func (q *SearchQuery) AddContains(column, value string) {
	q.Add(fmt.Sprintf("%s ILIKE $%d", column, q.idx), "%"+EscapeLike(value)+"%")
}

// AddDayEquals matches a timestamptz column against the calendar day of
// day, bucketing the column by its UTC date.
func (q *SearchQuery) AddDayEquals(column string, day time.Time) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	q.Add(fmt.Sprintf("(%s AT TIME ZONE 'UTC')::date = $%d::date", column, q.idx), d)
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *SearchQuery) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// CountSQL returns the count query SQL.
func (q *SearchQuery) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.from, q.where)
}

// CountArgs returns the arguments for the count query.
func (q *SearchQuery) CountArgs() []interface{} {
	return q.args
}

// AllSQL returns the data query without LIMIT/OFFSET.
func (q *SearchQuery) AllSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.from, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return sql
}

// AllArgs returns the arguments for AllSQL.
func (q *SearchQuery) AllArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET.
func (q *SearchQuery) DataSQL() string {
	return q.AllSQL() + fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
}

// DataArgs returns the arguments for the data query (search args + limit + offset).
func (q *SearchQuery) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE wildcards using the default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
