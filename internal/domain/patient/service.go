package patient

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

type Service struct {
	patients Repository
	ids      *idbridge.Bridge
}

func NewService(repo Repository, ids *idbridge.Bridge) *Service {
	return &Service{patients: repo, ids: ids}
}

func validate(p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return store.Invalid("name is required")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return store.Invalid("age out of range: %d", *p.Age)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return store.Invalid("invalid email: %s", p.Email)
		}
	}
	if !validStatuses[p.Status] {
		return store.Invalid("invalid status: %s", p.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := validate(p); err != nil {
		return err
	}
	p.Symptoms = store.Strings(p.Symptoms)
	p.Allergies = store.Strings(p.Allergies)
	p.CurrentMedications = store.Strings(p.CurrentMedications)
	if err := s.patients.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// Get resolves id through the bridge, so links that still carry a legacy
// identifier keep working.
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, s.ids.Resolve(id))
}

func (s *Service) Update(ctx context.Context, id string, u *Update) (*Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(p)
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.patients.Delete(ctx, s.ids.Resolve(id))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Patient, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validStatuses[status] {
		return nil, store.Invalid("invalid status: %s", status)
	}
	return s.Update(ctx, id, &Update{Status: &status})
}

// Prioritize flags the patient for the front of the doctor's list.
func (s *Service) Prioritize(ctx context.Context, id string) (*Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Priority {
		return p, nil
	}
	p.Priority = true
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("prioritize patient: %w", err)
	}
	return p, nil
}

// Names returns id -> name for stored patient ids. The ids are canonical
// and are not passed through the bridge again. Unknown ids are omitted.
func (s *Service) Names(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		p, err := s.patients.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out[id] = p.Name
	}
	return out, nil
}
