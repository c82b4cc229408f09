package treatment

import "context"

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id string) (*Treatment, error)
	Update(ctx context.Context, t *Treatment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Treatment, int, error)
}
