package doctor

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

type Service struct {
	doctors Repository
	ids     *idbridge.Bridge
}

func NewService(repo Repository, ids *idbridge.Bridge) *Service {
	return &Service{doctors: repo, ids: ids}
}

func validate(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return store.Invalid("name is required")
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return store.Invalid("invalid email: %s", d.Email)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if err := validate(d); err != nil {
		return err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.doctors.GetByID(ctx, s.ids.Resolve(id))
}

func (s *Service) Update(ctx context.Context, id string, u *Update) (*Doctor, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(d)
	if err := validate(d); err != nil {
		return nil, err
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.doctors.Delete(ctx, s.ids.Resolve(id))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}
