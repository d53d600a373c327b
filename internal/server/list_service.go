package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskly/internal/api"
	"taskly/internal/models"
	"taskly/internal/store"
)

// ListService manages lists. The default list can be renamed but never removed.
type ListService struct {
	store store.ListStore
	now   func() time.Time
}

func NewListService(st store.ListStore, now func() time.Time) *ListService {
	if now == nil {
		now = time.Now
	}
	return &ListService{store: st, now: now}
}

func (s *ListService) Create(ctx context.Context, req api.ListCreateRequest) (api.ListResponse, error) {
	var resp api.ListResponse
	name, err := normalizeName(req.Name, "name")
	if err != nil {
		return resp, err
	}

	now := s.now().UTC()
	list := &models.List{
		Name:      name,
		Color:     firstNonEmpty(req.Color, models.DefaultListColor),
		Emoji:     firstNonEmpty(req.Emoji, models.DefaultListEmoji),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return resp, err
	}
	return api.ListResponse{List: *list}, nil
}

// Update changes only the supplied fields.
func (s *ListService) Update(ctx context.Context, req api.ListUpdateRequest) (api.ListResponse, error) {
	var resp api.ListResponse
	if req.ID <= 0 {
		return resp, badRequestCode(fmt.Errorf("id is required"), ErrCodeInvalidID)
	}

	update := store.ListUpdate{UpdatedAt: s.now().UTC()}
	if req.Name != nil {
		name, err := normalizeName(*req.Name, "name")
		if err != nil {
			return resp, err
		}
		update.Name = &name
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		update.Color = &color
	}
	if req.Emoji != nil {
		emoji := strings.TrimSpace(*req.Emoji)
		update.Emoji = &emoji
	}

	found, err := s.store.UpdateList(ctx, req.ID, update)
	if err != nil {
		return resp, err
	}
	if !found {
		return resp, notFoundCode(fmt.Errorf("list %d not found", req.ID), ErrCodeListNotFound)
	}
	return s.Get(ctx, req.ID)
}

// Delete moves the list's tasks to the default list and removes it.
func (s *ListService) Delete(ctx context.Context, id int64) error {
	if id == models.DefaultListID {
		return conflictCode(fmt.Errorf("the default list cannot be deleted"), ErrCodeDefaultListLocked)
	}
	removed, err := s.store.DeleteList(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundCode(fmt.Errorf("list %d not found", id), ErrCodeListNotFound)
	}
	return nil
}

func (s *ListService) Get(ctx context.Context, id int64) (api.ListResponse, error) {
	var resp api.ListResponse
	list, err := s.store.GetList(ctx, id)
	if err != nil {
		return resp, err
	}
	if list == nil {
		return resp, notFoundCode(fmt.Errorf("list %d not found", id), ErrCodeListNotFound)
	}
	count, err := s.store.ListTaskCount(ctx, id)
	if err != nil {
		return resp, err
	}
	return api.ListResponse{List: *list, TaskCount: count}, nil
}

// All returns every list with its task count, oldest first.
func (s *ListService) All(ctx context.Context) ([]api.ListResponse, error) {
	lists, err := s.store.ListLists(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.ListTaskCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.ListResponse, 0, len(lists))
	for _, list := range lists {
		out = append(out, api.ListResponse{List: list, TaskCount: counts[list.ID]})
	}
	return out, nil
}
