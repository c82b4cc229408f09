package medicine

import "context"

type Repository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	// AdjustStock adds delta to the stock in one atomic step and returns
	// the updated row. It fails with ErrInsufficientStock when the result
	// would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error)
}
