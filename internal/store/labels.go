package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskly/internal/models"
)

const labelColumns = "id, name, color, icon, created_at"

// LabelUpdate describes label fields to change. Nil fields are left untouched.
type LabelUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// CreateLabel inserts a label and sets label.ID.
func (s *Store) CreateLabel(ctx context.Context, label *models.Label) error {
	if label == nil {
		return fmt.Errorf("label is required")
	}
	if label.CreatedAt.IsZero() {
		label.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO labels (name, color, icon, created_at) VALUES (?, ?, ?, ?)",
		label.Name, label.Color, label.Icon, formatTime(label.CreatedAt),
	)
	if err != nil {
		return err
	}
	label.ID, err = res.LastInsertId()
	return err
}

// GetLabel returns a label by id, or nil when it does not exist.
func (s *Store) GetLabel(ctx context.Context, id int64) (*models.Label, error) {
	return s.getLabelWhere(ctx, "id = ?", id)
}

// GetLabelByName returns a label by exact name, or nil when it does not exist.
func (s *Store) GetLabelByName(ctx context.Context, name string) (*models.Label, error) {
	return s.getLabelWhere(ctx, "name = ?", name)
}

func (s *Store) getLabelWhere(ctx context.Context, where string, arg any) (*models.Label, error) {
	var row labelRow
	err := s.db.GetContext(ctx, &row, "SELECT "+labelColumns+" FROM labels WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	label, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// ListAllLabels returns every label ordered by name.
func (s *Store) ListAllLabels(ctx context.Context) ([]models.Label, error) {
	var rows []labelRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+labelColumns+" FROM labels ORDER BY name ASC, id ASC"); err != nil {
		return nil, err
	}
	out := make([]models.Label, 0, len(rows))
	for _, row := range rows {
		label, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, nil
}

// UpdateLabel applies update and reports whether the label exists.
func (s *Store) UpdateLabel(ctx context.Context, id int64, update LabelUpdate) (bool, error) {
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
	if update.Icon != nil {
		set = append(set, "icon = ?")
		args = append(args, *update.Icon)
	}
	if len(set) == 0 {
		label, err := s.GetLabel(ctx, id)
		return label != nil, err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE labels SET %s WHERE id = ?", strings.Join(set, ", ")), args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteLabel removes a label; its task associations cascade.
func (s *Store) DeleteLabel(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM labels WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LabelTaskCount returns the number of tasks tagged with a label.
func (s *Store) LabelTaskCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM task_labels WHERE label_id = ?", id)
	return count, err
}

// LabelTaskCounts returns task counts for every label that is in use.
func (s *Store) LabelTaskCounts(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		LabelID int64 `db:"label_id"`
		Count   int   `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, "SELECT label_id, COUNT(*) AS n FROM task_labels GROUP BY label_id"); err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.LabelID] = row.Count
	}
	return out, nil
}

// MissingLabelIDs returns the ids in ids that have no label row, sorted.
func (s *Store) MissingLabelIDs(ctx context.Context, ids []int64) ([]int64, error) {
	ids = uniqueIDs(ids)
	found := make(map[int64]struct{}, len(ids))
	for _, chunk := range chunkIDs(ids) {
		query, args, err := sqlx.In("SELECT id FROM labels WHERE id IN (?)", chunk)
		if err != nil {
			return nil, err
		}
		var existing []int64
		if err := s.db.SelectContext(ctx, &existing, s.db.Rebind(query), args...); err != nil {
			return nil, err
		}
		for _, id := range existing {
			found[id] = struct{}{}
		}
	}

	missing := []int64{}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}
