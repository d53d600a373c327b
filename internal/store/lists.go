package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskly/internal/models"
)

const listColumns = "id, name, color, emoji, created_at, updated_at"

// ListUpdate describes list fields to change. Nil fields are left untouched.
type ListUpdate struct {
	Name      *string
	Color     *string
	Emoji     *string
	UpdatedAt time.Time
}

func (u ListUpdate) isEmpty() bool {
	return u.Name == nil && u.Color == nil && u.Emoji == nil
}

// CreateList inserts a list and sets list.ID.
func (s *Store) CreateList(ctx context.Context, list *models.List) error {
	if list == nil {
		return fmt.Errorf("list is required")
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (name, color, emoji, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		list.Name, list.Color, list.Emoji, formatTime(list.CreatedAt), formatTime(list.UpdatedAt),
	)
	if err != nil {
		return err
	}
	list.ID, err = res.LastInsertId()
	return err
}

// GetList returns a list by id, or nil when it does not exist.
func (s *Store) GetList(ctx context.Context, id int64) (*models.List, error) {
	var row listRow
	err := s.db.GetContext(ctx, &row, "SELECT "+listColumns+" FROM lists WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListLists returns all lists in creation order.
func (s *Store) ListLists(ctx context.Context) ([]models.List, error) {
	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+listColumns+" FROM lists ORDER BY created_at ASC, id ASC"); err != nil {
		return nil, err
	}
	return listsFromRows(rows)
}

// ListsByIDs returns the lists with the given ids keyed by id.
func (s *Store) ListsByIDs(ctx context.Context, ids []int64) (map[int64]models.List, error) {
	out := make(map[int64]models.List, len(ids))
	for _, chunk := range chunkIDs(uniqueIDs(ids)) {
		query, args, err := sqlx.In("SELECT "+listColumns+" FROM lists WHERE id IN (?)", chunk)
		if err != nil {
			return nil, err
		}
		var rows []listRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return nil, err
		}
		lists, err := listsFromRows(rows)
		if err != nil {
			return nil, err
		}
		for _, list := range lists {
			out[list.ID] = list
		}
	}
	return out, nil
}

// UpdateList applies update and reports whether the list exists.
func (s *Store) UpdateList(ctx context.Context, id int64, update ListUpdate) (bool, error) {
	if update.isEmpty() {
		return s.listExists(ctx, s.db, id)
	}

	set := []string{}
	args := []any{}
	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *update.Color)
	}
	if update.Emoji != nil {
		set = append(set, "emoji = ?")
		args = append(args, *update.Emoji)
	}
	set = append(set, "updated_at = ?")
	args = append(args, formatTime(update.UpdatedAt), id)

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE lists SET %s WHERE id = ?", strings.Join(set, ", ")), args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteList moves the list's tasks to the default list and removes it.
// The default list is never removed; false is returned for it.
func (s *Store) DeleteList(ctx context.Context, id int64) (bool, error) {
	if id == models.DefaultListID {
		return false, nil
	}

	removed := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE tasks SET list_id = ? WHERE list_id = ?", models.DefaultListID, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// ListTaskCount returns the number of tasks in a list.
func (s *Store) ListTaskCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tasks WHERE list_id = ?", id)
	return count, err
}

// ListTaskCounts returns task counts for every list that has tasks.
func (s *Store) ListTaskCounts(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		ListID int64 `db:"list_id"`
		Count  int   `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, "SELECT list_id, COUNT(*) AS n FROM tasks GROUP BY list_id"); err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.ListID] = row.Count
	}
	return out, nil
}

func (s *Store) listExists(ctx context.Context, q sqlx.QueryerContext, id int64) (bool, error) {
	var exists int
	err := sqlx.GetContext(ctx, q, &exists, "SELECT 1 FROM lists WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListExists checks whether a list exists by id.
func (s *Store) ListExists(ctx context.Context, id int64) (bool, error) {
	return s.listExists(ctx, s.db, id)
}

func listsFromRows(rows []listRow) ([]models.List, error) {
	out := make([]models.List, 0, len(rows))
	for _, row := range rows {
		list, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, list)
	}
	return out, nil
}
