package patient

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
	"github.com/dermai/clinic/internal/platform/store"
)

const collection = "patients"

type repoFS struct{ client *docstore.Client }

func NewRepoFS(client *docstore.Client) Repository {
	return &repoFS{client: client}
}

func decodePatient(snap *firestore.DocumentSnapshot) (*Patient, error) {
	var p Patient
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = snap.Ref.ID
	p.HospitalID = snap.Ref.Parent.Parent.ID
	return &p, nil
}

func (r *repoFS) Create(ctx context.Context, p *Patient) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	ref := col.NewDoc()
	p.ID = ref.ID
	p.HospitalID = db.HospitalFromContext(ctx)
	p.CreatedAt = store.Now()
	p.UpdatedAt = p.CreatedAt
	_, err = ref.Create(ctx, p)
	return err
}

func (r *repoFS) GetByID(ctx context.Context, id string) (*Patient, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, store.ErrNotFound
	}
	snap, err := col.Doc(id).Get(ctx)
	if err != nil {
		return nil, docstore.MapNotFound(err)
	}
	return decodePatient(snap)
}

func (r *repoFS) Update(ctx context.Context, p *Patient) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	if p.ID == "" {
		return store.ErrNotFound
	}
	p.UpdatedAt = store.Now()
	return r.client.Replace(ctx, col.Doc(p.ID), p)
}

func (r *repoFS) Delete(ctx context.Context, id string) error {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return err
	}
	if id == "" {
		return store.ErrNotFound
	}
	return docstore.Delete(ctx, col.Doc(id))
}

func (r *repoFS) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	col, err := r.client.Collection(ctx, collection)
	if err != nil {
		return nil, 0, err
	}
	total, err := docstore.Count(ctx, col.Query)
	if err != nil {
		return nil, 0, err
	}
	q := docstore.Window(col.OrderBy("created_at", firestore.Desc), limit, offset)
	items, err := docstore.Collect(q.Documents(ctx), decodePatient)
	return items, total, err
}
