package treatment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

type Service struct {
	treatments Repository
	ids        *idbridge.Bridge
}

func NewService(repo Repository, ids *idbridge.Bridge) *Service {
	return &Service{treatments: repo, ids: ids}
}

func validate(t *Treatment) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return store.Invalid("name is required")
	}
	if t.Cost < 0 || math.IsNaN(t.Cost) || math.IsInf(t.Cost, 0) {
		return store.Invalid("cost must be a non-negative amount")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, t *Treatment) error {
	if err := validate(t); err != nil {
		return err
	}
	if err := s.treatments.Create(ctx, t); err != nil {
		return fmt.Errorf("create treatment: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Treatment, error) {
	return s.GetCanonical(ctx, s.ids.Resolve(id))
}

// GetCanonical looks up an id that has already been through the bridge.
func (s *Service) GetCanonical(ctx context.Context, id string) (*Treatment, error) {
	return s.treatments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, u *Update) (*Treatment, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(t)
	if err := validate(t); err != nil {
		return nil, err
	}
	if err := s.treatments.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update treatment: %w", err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.treatments.Delete(ctx, s.ids.Resolve(id))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	return s.treatments.List(ctx, limit, offset)
}
