package store

import (
	"fmt"
	"strings"
)

type listQueryBuilder struct {
	filter ListFilter
	query  string
	args   []any
	where  []string
}

func buildListQuery(filter ListFilter) (string, []any) {
	builder := &listQueryBuilder{filter: filter}
	builder.buildSelect()
	builder.buildWhere()
	builder.buildOrder()
	builder.buildPagination()
	return builder.query, builder.args
}

func (b *listQueryBuilder) buildSelect() {
	b.query = "SELECT " + taskColumns + " FROM tasks"
}

func (b *listQueryBuilder) buildWhere() {
	b.appendList()
	b.appendLabels()
	b.appendPriority()
	b.appendStatus()
	b.appendDates()
	b.appendParent()
	b.appendSearch()
	b.appendDueBefore()

	if len(b.where) == 0 {
		return
	}
	b.query += " WHERE " + strings.Join(b.where, " AND ")
}

// buildOrder sorts by the effective due reference with absent values last,
// then newest first.
func (b *listQueryBuilder) buildOrder() {
	b.query += " ORDER BY COALESCE(deadline, date) IS NULL, COALESCE(deadline, date) ASC, created_at DESC, id DESC"
}

func (b *listQueryBuilder) buildPagination() {
	hasLimit := false
	if b.filter.Limit > 0 {
		b.query += " LIMIT ?"
		b.args = append(b.args, b.filter.Limit)
		hasLimit = true
	}
	if b.filter.Offset > 0 {
		if !hasLimit {
			b.query += " LIMIT -1"
		}
		b.query += " OFFSET ?"
		b.args = append(b.args, b.filter.Offset)
	}
}

func (b *listQueryBuilder) appendList() {
	if b.filter.ListID == nil {
		return
	}
	b.where = append(b.where, "list_id = ?")
	b.args = append(b.args, *b.filter.ListID)
}

func (b *listQueryBuilder) appendLabels() {
	if len(b.filter.LabelIDs) == 0 {
		return
	}
	b.where = append(b.where, fmt.Sprintf("id IN (SELECT task_id FROM task_labels WHERE label_id IN (%s))", placeholders(len(b.filter.LabelIDs))))
	for _, id := range b.filter.LabelIDs {
		b.args = append(b.args, id)
	}
}

func (b *listQueryBuilder) appendPriority() {
	if b.filter.Priority == "" {
		return
	}
	b.where = append(b.where, "priority = ?")
	b.args = append(b.args, b.filter.Priority)
}

func (b *listQueryBuilder) appendStatus() {
	if b.filter.Status != "" {
		b.where = append(b.where, "status = ?")
		b.args = append(b.args, b.filter.Status)
	}
	if b.filter.ExcludeCompleted {
		b.where = append(b.where, "status <> 'completed'")
	}
}

func (b *listQueryBuilder) appendDates() {
	if b.filter.Date != "" {
		b.where = append(b.where, "date = ?")
		b.args = append(b.args, b.filter.Date)
	}
	if b.filter.StartDate != "" {
		b.where = append(b.where, "date >= ?")
		b.args = append(b.args, b.filter.StartDate)
	}
	if b.filter.EndDate != "" {
		b.where = append(b.where, "date <= ?")
		b.args = append(b.args, b.filter.EndDate)
	}
}

func (b *listQueryBuilder) appendParent() {
	if b.filter.NoParent {
		b.where = append(b.where, "parent_task_id IS NULL")
		return
	}
	if b.filter.ParentID != nil {
		b.where = append(b.where, "parent_task_id = ?")
		b.args = append(b.args, *b.filter.ParentID)
	}
}

func (b *listQueryBuilder) appendSearch() {
	term := strings.TrimSpace(b.filter.Search)
	if term == "" {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	b.where = append(b.where, `(`+foldFunc+`(name) LIKE ? ESCAPE '\' OR `+foldFunc+`(COALESCE(description, '')) LIKE ? ESCAPE '\')`)
	b.args = append(b.args, pattern, pattern)
}

func (b *listQueryBuilder) appendDueBefore() {
	if b.filter.DueBeforeDate == "" {
		return
	}
	b.where = append(b.where, "(deadline IS NOT NULL OR (date IS NOT NULL AND date < ?))")
	b.args = append(b.args, b.filter.DueBeforeDate)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
