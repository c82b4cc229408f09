package treatmentinfo

import "context"

type Repository interface {
	Get(ctx context.Context, kind, itemID string) (*Info, error)
	// Upsert stores info keyed by (item type, item id), replacing the
	// explanation of an existing row and keeping its id and created_at.
	Upsert(ctx context.Context, info *Info) error
}
