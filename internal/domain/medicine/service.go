package medicine

import (
	"context"
	"fmt"
	"strings"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

type Service struct {
	medicines Repository
	ids       *idbridge.Bridge
}

func NewService(repo Repository, ids *idbridge.Bridge) *Service {
	return &Service{medicines: repo, ids: ids}
}

func validate(m *Medicine) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return store.Invalid("name is required")
	}
	if m.Stock < 0 {
		return store.Invalid("stock cannot be negative")
	}
	if m.DurationDays != nil && *m.DurationDays < 0 {
		return store.Invalid("duration_days cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if err := validate(m); err != nil {
		return err
	}
	if err := s.medicines.Create(ctx, m); err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Medicine, error) {
	return s.GetCanonical(ctx, s.ids.Resolve(id))
}

// GetCanonical looks up an id that has already been through the bridge.
func (s *Service) GetCanonical(ctx context.Context, id string) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, u *Update) (*Medicine, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(m)
	if err := validate(m); err != nil {
		return nil, err
	}
	if err := s.medicines.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update medicine: %w", err)
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.medicines.Delete(ctx, s.ids.Resolve(id))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.medicines.List(ctx, limit, offset)
}

// AdjustStock applies a signed delta: positive for a delivery, negative
// for dispensing.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error) {
	if delta == 0 {
		return nil, store.Invalid("delta must not be zero")
	}
	return s.medicines.AdjustStock(ctx, s.ids.Resolve(id), delta)
}
