package patient

import "context"

// Repository is implemented once per storage backend. All methods are
// scoped to the hospital in ctx and report store.ErrNotFound for ids that
// do not exist there.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
