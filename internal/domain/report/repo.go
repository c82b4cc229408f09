package report

import "context"

// Repository is implemented once per storage backend. Update never touches
// messages; AppendMessage and MarkRead change them atomically so
// concurrent senders do not lose each other's messages.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id string) error
	// List returns reports newest first; a non-empty patientID filters.
	List(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error)

	AppendMessage(ctx context.Context, id string, m Message) error
	// MarkRead sets the reader's flag on every message of the report.
	MarkRead(ctx context.Context, id, reader string) error
	// ListUnread returns reports holding patient messages the doctor has
	// not read.
	ListUnread(ctx context.Context) ([]*Report, error)
}
