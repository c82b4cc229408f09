package doctor

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "doctors"

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

func decodeDoctor(snap *firestore.DocumentSnapshot) (*Doctor, error) {
	var d Doctor
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	d.ID = snap.Ref.ID
	d.HospitalID = snap.Ref.Parent.Parent.ID
	return &d, nil
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

func (r *repoFS) Create(ctx context.Context, d *Doctor) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	doc := col.NewDoc()
	d.ID = doc.ID
	d.HospitalID = db.HospitalFromContext(ctx)
	d.CreatedAt = store.Now()
	d.UpdatedAt = d.CreatedAt
	_, err = doc.Create(ctx, d)
	return err
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Doctor, error) {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := doc.Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodeDoctor(snap)
}

func (r *repoFS) Update(ctx context.Context, d *Doctor) error {
	doc, err := r.ref(ctx, d.ID)
	if err != nil {
		return err
	}
	d.UpdatedAt = store.Now()
	return r.client.Replace(ctx, doc, d)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	doc, err := r.ref(ctx, id)
	if err != nil {
		return err
	}
	return docstore.Delete(ctx, doc)
}

func (r *repoFS) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	total, err := docstore.Count(ctx, col.Query)
	if err != nil {
		return nil, 0, err
	}
	q := docstore.Window(col.OrderBy("created_at", firestore.Desc), limit, offset)
	items, err := docstore.Collect(q.Documents(ctx), decodeDoctor)
	return items, total, err
}
