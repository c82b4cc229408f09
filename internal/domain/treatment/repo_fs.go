package treatment

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "treatments"

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

func decodeTreatment(snap *firestore.DocumentSnapshot) (*Treatment, error) {
	var t Treatment
	if err := snap.DataTo(&t); err != nil {
		return nil, err
	}
	t.ID = snap.Ref.ID
	t.HospitalID = snap.Ref.Parent.Parent.ID
	return &t, nil
}

func (r *repoFS) ref(ctx context.Context, id string) (*firestore.DocumentRef, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, store.ErrNotFound
	}
	return col.Doc(id), nil
}

func (r *repoFS) Create(ctx context.Context, t *Treatment) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	doc := col.NewDoc()
	t.ID = doc.ID
	t.HospitalID = db.HospitalFromContext(ctx)
	t.CreatedAt = store.Now()
	t.UpdatedAt = t.CreatedAt
	_, err = doc.Create(ctx, t)
	return err
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Treatment, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeTreatment(snap)
}

func (r *repoFS) Update(ctx context.Context, t *Treatment) error {
	doc, err := r.ref(ctx, t.ID)
	if err != nil {
		return err
	}
	t.UpdatedAt = store.Now()
	return r.client.Replace(ctx, doc, t)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return err
	}
	return docstore.Delete(ctx, doc)
}

func (r *repoFS) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	total, err := docstore.Count(ctx, col.Query)
	if err != nil {
		return nil, 0, err
	}
	q := docstore.Window(col.OrderBy("created_at", firestore.Desc), limit, offset)
	items, err := docstore.Collect(q.Documents(ctx), decodeTreatment)
	return items, total, err
}
