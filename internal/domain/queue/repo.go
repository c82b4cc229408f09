package queue

import (
	"context"
	"time"
)

type Repository interface {
	// CheckIn stores e with the next token for (e.Date, e.QueueType). The
	// token is assigned atomically; concurrent check-ins never share one.
	CheckIn(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	// ListDay returns the day's entries in the given statuses ordered by
	// check-in time.
	ListDay(ctx context.Context, date string, statuses []string) ([]*Entry, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (*Entry, error)
	Delete(ctx context.Context, id string) error
}
