// Package docstore wraps the Firestore client used by the document-store
// repositories. Every collection lives under hospitals/{hospital_id}.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/store"
)

const hospitalsCollection = "hospitals"

type Client struct {
	fs *firestore.Client
}

// Open connects to Firestore. credentialsJSON may be empty, in which case
// application default credentials (or FIRESTORE_EMULATOR_HOST) are used.
func Open(ctx context.Context, projectID, credentialsJSON string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Client{fs: fs}, nil
}

// Firestore exposes the underlying client for transactions.
func (c *Client) Firestore() *firestore.Client { return c.fs }

func (c *Client) Close() error { return c.fs.Close() }

// Ping reads at most one hospital document.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fs.Collection(hospitalsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

// Collection returns hospitals/{hospital}/{name} for the hospital in ctx.
func (c *Client) Collection(ctx context.Context, name string) (*firestore.CollectionRef, error) {
	hospitalID := db.HospitalFromContext(ctx)
	if hospitalID == "" {
		return nil, store.ErrNoHospital
	}
	return c.fs.Collection(hospitalsCollection).Doc(hospitalID).Collection(name), nil
}

// Replace overwrites the document at ref, reporting store.ErrNotFound when
// it does not exist.
func (c *Client) Replace(ctx context.Context, ref *firestore.DocumentRef, data interface{}) error {
	return c.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return MapNotFound(err)
		}
		return tx.Set(ref, data)
	})
}

// Delete removes the document at ref, reporting store.ErrNotFound when it
// does not exist.
func Delete(ctx context.Context, ref *firestore.DocumentRef) error {
	_, err := ref.Delete(ctx, firestore.Exists)
	return MapNotFound(err)
}

// Window applies offset and limit to q; a non-positive limit means all.
func Window(q firestore.Query, limit, offset int) firestore.Query {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// IsNotFound reports whether err is Firestore's NotFound status.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// MapNotFound turns Firestore's NotFound into store.ErrNotFound.
func MapNotFound(err error) error {
	if IsNotFound(err) {
		return store.ErrNotFound
	}
	return err
}

// Count runs a server-side count aggregation over q.
func Count(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count: unexpected result type %T", res["all"])
	}
	return int(v.GetIntegerValue()), nil
}

// Collect drains it, decoding each snapshot with decode.
func Collect[T any](it *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer it.Stop()
	var out []T
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, v)
	}
}
