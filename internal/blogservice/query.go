package blogservice

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

const (
	SortReadCount   = "read_count"
	SortReadingTime = "reading_time"
	SortTimestamp   = "timestamp"
)

// sortColumns maps a sort mode to its ORDER BY clause. Unknown modes fall back to timestamp.
var sortColumns = map[string]string{
	SortReadCount:   "b.read_count DESC, b.created_at DESC, b.id",
	SortReadingTime: "b.reading_time DESC, b.created_at DESC, b.id",
	SortTimestamp:   "b.created_at DESC, b.id",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Pagination is a 1-indexed page request.
type Pagination struct {
	Page  int
	Limit int
}

func NewPagination(page, limit int) Pagination {
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func validatePagination(v *common.Validator, p Pagination) {
	v.Check(p.Page >= 1, "page", "must be greater than zero")
	v.Check(p.Limit >= 1 && p.Limit <= MaxLimit, "limit", "must be between 1 and 100")
}

// pages returns the number of pages needed to hold total results.
func pages(total, limit int) int {
	if limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

// ListQuery selects a page of published blogs.
type ListQuery struct {
	Pagination
	Search string
	Sort   string
}

func sortClause(sort string) string {
	if clause, ok := sortColumns[sort]; ok {
		return clause
	}

	return sortColumns[SortTimestamp]
}

// containsPattern builds an ILIKE pattern matching term anywhere in a value.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// where accumulates AND-ed SQL conditions with positional arguments.
type where struct {
	clauses []string
	args    []any
}

// arg registers value and returns its placeholder.
func (w *where) arg(value any) string {
	w.args = append(w.args, value)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) and(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// publishedFilter matches published blogs and, when term is not empty, those whose title,
// description or any tag contains term, or whose author is one of authorIDs.
func publishedFilter(term string, authorIDs []uuid.UUID) *where {
	w := &where{}
	w.and("b.state = " + w.arg(string(StatePublished)))

	if term == "" {
		return w
	}

	p := w.arg(containsPattern(term))
	matches := []string{
		"b.title ILIKE " + p,
		"b.description ILIKE " + p,
		"EXISTS (SELECT 1 FROM unnest(b.tags) AS tag WHERE tag ILIKE " + p + ")",
	}

	if len(authorIDs) > 0 {
		ids := make([]string, len(authorIDs))
		for i, id := range authorIDs {
			ids[i] = id.String()
		}
		matches = append(matches, "b.author_id = ANY("+w.arg(pq.StringArray(ids))+"::uuid[])")
	}

	w.and("(" + strings.Join(matches, " OR ") + ")")

	return w
}

// authorFilter matches the blogs of authorID, optionally restricted to one state.
func authorFilter(authorID uuid.UUID, state State) *where {
	w := &where{}
	w.and("b.author_id = " + w.arg(authorID))

	if state != "" {
		w.and("b.state = " + w.arg(string(state)))
	}

	return w
}
