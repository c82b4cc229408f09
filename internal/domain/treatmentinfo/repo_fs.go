package treatmentinfo

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "treatment_info"

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

// Documents are keyed by item, so an upsert is a plain write.
func docID(kind, itemID string) string {
	return kind + "_" + itemID
}

func (r *repoFS) Get(ctx context.Context, kind, itemID string) (*Info, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, store.ErrNotFound
	}
	snap, err := col.Doc(docID(kind, itemID)).Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	var info Info
	if err := snap.DataTo(&info); err != nil {
		return nil, err
	}
	info.ID = snap.Ref.ID
	info.HospitalID = snap.Ref.Parent.Parent.ID
	return &info, nil
}

func (r *repoFS) Upsert(ctx context.Context, info *Info) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	ref := col.Doc(docID(info.ItemType, info.ItemID))
	return r.client.Firestore().RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := store.Now()
		info.CreatedAt = now
		snap, err := tx.Get(ref)
		switch {
		case docstore.IsNotFound(err):
		case err != nil:
			return err
		default:
			var cur Info
			if err := snap.DataTo(&cur); err != nil {
				return err
			}
			info.CreatedAt = cur.CreatedAt
		}
		info.ID = ref.ID
		info.HospitalID = db.HospitalFromContext(ctx)
		info.UpdatedAt = now
		return tx.Set(ref, info)
	})
}
