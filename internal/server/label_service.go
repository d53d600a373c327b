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

// LabelService manages labels. Names are unique.
type LabelService struct {
	store store.LabelStore
	now   func() time.Time
}

func NewLabelService(st store.LabelStore, now func() time.Time) *LabelService {
	if now == nil {
		now = time.Now
	}
	return &LabelService{store: st, now: now}
}

func (s *LabelService) Create(ctx context.Context, req api.LabelCreateRequest) (api.LabelResponse, error) {
	var resp api.LabelResponse
	name, err := normalizeName(req.Name, "name")
	if err != nil {
		return resp, err
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return resp, err
	}

	label := &models.Label{
		Name:      name,
		Color:     firstNonEmpty(req.Color, models.DefaultLabelColor),
		Icon:      firstNonEmpty(req.Icon, models.DefaultLabelIcon),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateLabel(ctx, label); err != nil {
		if isUniqueConstraint(err, "labels.name") {
			return resp, conflictCode(fmt.Errorf("label %q already exists", name), ErrCodeLabelNameExists)
		}
		return resp, err
	}
	return api.LabelResponse{Label: *label}, nil
}

// Update changes only the supplied fields.
func (s *LabelService) Update(ctx context.Context, req api.LabelUpdateRequest) (api.LabelResponse, error) {
	var resp api.LabelResponse
	if req.ID <= 0 {
		return resp, badRequestCode(fmt.Errorf("id is required"), ErrCodeInvalidID)
	}

	var update store.LabelUpdate
	if req.Name != nil {
		name, err := normalizeName(*req.Name, "name")
		if err != nil {
			return resp, err
		}
		if err := s.ensureNameFree(ctx, name, req.ID); err != nil {
			return resp, err
		}
		update.Name = &name
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		update.Color = &color
	}
	if req.Icon != nil {
		icon := strings.TrimSpace(*req.Icon)
		update.Icon = &icon
	}

	found, err := s.store.UpdateLabel(ctx, req.ID, update)
	if err != nil {
		if isUniqueConstraint(err, "labels.name") {
			return resp, conflictCode(fmt.Errorf("label %q already exists", valueOrEmpty(req.Name)), ErrCodeLabelNameExists)
		}
		return resp, err
	}
	if !found {
		return resp, notFoundCode(fmt.Errorf("label %d not found", req.ID), ErrCodeLabelNotFound)
	}
	return s.Get(ctx, req.ID)
}

// Delete removes a label and its task associations.
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteLabel(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundCode(fmt.Errorf("label %d not found", id), ErrCodeLabelNotFound)
	}
	return nil
}

func (s *LabelService) Get(ctx context.Context, id int64) (api.LabelResponse, error) {
	label, err := s.store.GetLabel(ctx, id)
	if err != nil {
		return api.LabelResponse{}, err
	}
	if label == nil {
		return api.LabelResponse{}, notFoundCode(fmt.Errorf("label %d not found", id), ErrCodeLabelNotFound)
	}
	return s.withCount(ctx, *label)
}

func (s *LabelService) GetByName(ctx context.Context, name string) (api.LabelResponse, error) {
	name = strings.TrimSpace(name)
	label, err := s.store.GetLabelByName(ctx, name)
	if err != nil {
		return api.LabelResponse{}, err
	}
	if label == nil {
		return api.LabelResponse{}, notFoundCode(fmt.Errorf("label %q not found", name), ErrCodeLabelNotFound)
	}
	return s.withCount(ctx, *label)
}

// All returns every label with its task count, by name.
func (s *LabelService) All(ctx context.Context) ([]api.LabelResponse, error) {
	labels, err := s.store.ListAllLabels(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.LabelTaskCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.LabelResponse, 0, len(labels))
	for _, label := range labels {
		out = append(out, api.LabelResponse{Label: label, TaskCount: counts[label.ID]})
	}
	return out, nil
}

func (s *LabelService) withCount(ctx context.Context, label models.Label) (api.LabelResponse, error) {
	count, err := s.store.LabelTaskCount(ctx, label.ID)
	if err != nil {
		return api.LabelResponse{}, err
	}
	return api.LabelResponse{Label: label, TaskCount: count}, nil
}

// ensureNameFree rejects name when a label other than selfID already has it.
func (s *LabelService) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.store.GetLabelByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return conflictCode(fmt.Errorf("label %q already exists", name), ErrCodeLabelNameExists)
	}
	return nil
}
