package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

type Service struct {
	entries Repository
	ids     *idbridge.Bridge
	now     func() time.Time
}

func NewService(repo Repository, ids *idbridge.Bridge) *Service {
	return &Service{entries: repo, ids: ids, now: store.Now}
}

// today is the clinic day in UTC.
func (s *Service) today() string {
	return s.now().Format(DateLayout)
}

// CheckIn puts a patient at the back of a queue and returns the entry with
// its token. An empty queueType means a check-up.
func (s *Service) CheckIn(ctx context.Context, patientID, queueType string) (*Entry, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, store.Invalid("patient_id is required")
	}
	if queueType == "" {
		queueType = TypeCheckUp
	}
	if !validType(queueType) {
		return nil, store.Invalid("unknown queue type %q", queueType)
	}

	now := s.now()
	e := &Entry{
		PatientID:         s.ids.Resolve(patientID),
		QueueType:         queueType,
		Status:            StatusWaiting,
		Date:              now.Format(DateLayout),
		CheckInTime:       now,
		EstimatedWaitTime: DefaultWaitMinutes,
	}
	if err := s.entries.CheckIn(ctx, e); err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	return s.entries.GetByID(ctx, s.ids.Resolve(id))
}

// Waiting lists today's waiting patients in check-in order.
func (s *Service) Waiting(ctx context.Context) ([]*Entry, error) {
	return s.entries.ListDay(ctx, s.today(), []string{StatusWaiting})
}

// Board groups today's waiting and in-progress entries by queue type.
// Every type is present, empty or not.
func (s *Service) Board(ctx context.Context) (Board, error) {
	entries, err := s.entries.ListDay(ctx, s.today(), active)
	if err != nil {
		return nil, err
	}
	board := make(Board, len(types))
	for _, t := range types {
		board[t] = []*Entry{}
	}
	for _, e := range entries {
		if _, ok := board[e.QueueType]; ok {
			board[e.QueueType] = append(board[e.QueueType], e)
		}
	}
	return board, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Entry, error) {
	if !statuses[status] {
		return nil, store.Invalid("invalid status %q", status)
	}
	return s.entries.UpdateStatus(ctx, s.ids.Resolve(id), status, s.now())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.entries.Delete(ctx, s.ids.Resolve(id))
}
