package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

const unknownPatient = "Unknown"

// PatientNames looks up display names for canonical patient ids.
type PatientNames interface {
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// SummarizeFunc produces the AI summary and patient-facing explanation
// for a report.
type SummarizeFunc func(ctx context.Context, r *Report) (summary, explanation string, err error)

type Service struct {
	reports   Repository
	patients  PatientNames
	ids       *idbridge.Bridge
	summarize SummarizeFunc
}

func NewService(repo Repository, patients PatientNames, ids *idbridge.Bridge) *Service {
	return &Service{reports: repo, patients: patients, ids: ids}
}

// SetSummarizer enables Summarize.
func (s *Service) SetSummarizer(fn SummarizeFunc) {
	s.summarize = fn
}

func (s *Service) Create(ctx context.Context, r *Report) error {
	r.PatientID = strings.TrimSpace(r.PatientID)
	if r.PatientID == "" {
		return store.Invalid("patient_id is required")
	}
	r.PatientID = s.ids.Resolve(r.PatientID)
	r.Treatments = store.Strings(r.Treatments)
	r.Medicines = store.Strings(r.Medicines)
	r.Messages = []Message{}
	if err := s.reports.Create(ctx, r); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Report, error) {
	return s.reports.GetByID(ctx, s.ids.Resolve(id))
}

func (s *Service) Update(ctx context.Context, id string, u *Update) (*Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(r)
	if err := s.reports.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.reports.Delete(ctx, s.ids.Resolve(id))
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Report, int, error) {
	return s.reports.List(ctx, "", limit, offset)
}

// ListByPatient returns the patient's reports, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Report, int, error) {
	if patientID == "" {
		return nil, 0, store.Invalid("patient id is required")
	}
	return s.reports.List(ctx, s.ids.Resolve(patientID), limit, offset)
}

// SendMessage appends a message to the report's thread. The sender has
// read its own message; the other side has not.
func (s *Service) SendMessage(ctx context.Context, reportID, sender, content string) (*Message, error) {
	if sender != SenderDoctor && sender != SenderPatient {
		return nil, store.Invalid("sender must be %q or %q", SenderDoctor, SenderPatient)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, store.Invalid("message content is required")
	}
	m := Message{
		ID:            store.NewID(),
		Sender:        sender,
		Content:       content,
		Timestamp:     store.Now(),
		ReadByDoctor:  sender == SenderDoctor,
		ReadByPatient: sender == SenderPatient,
	}
	if err := s.reports.AppendMessage(ctx, s.ids.Resolve(reportID), m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) MarkRead(ctx context.Context, reportID, reader string) error {
	if reader != SenderDoctor && reader != SenderPatient {
		return store.Invalid("reader must be %q or %q", SenderDoctor, SenderPatient)
	}
	return s.reports.MarkRead(ctx, s.ids.Resolve(reportID), reader)
}

// UnreadForDoctor lists reports with unread patient messages, most unread
// first.
func (s *Service) UnreadForDoctor(ctx context.Context) ([]UnreadSummary, error) {
	reports, err := s.reports.ListUnread(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.PatientID)
	}
	names := map[string]string{}
	if s.patients != nil && len(ids) > 0 {
		if names, err = s.patients.Names(ctx, ids); err != nil {
			return nil, fmt.Errorf("patient names: %w", err)
		}
	}

	out := make([]UnreadSummary, 0, len(reports))
	for _, r := range reports {
		name, ok := names[r.PatientID]
		if !ok || name == "" {
			name = unknownPatient
		}
		out = append(out, UnreadSummary{
			ReportID:       r.ID,
			PatientID:      r.PatientID,
			PatientName:    name,
			Diagnosis:      r.Diagnosis,
			Doctor:         r.Doctor,
			CreatedAt:      r.CreatedAt,
			UnreadMessages: r.UnreadCount(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnreadMessages > out[j].UnreadMessages
	})
	return out, nil
}

// Summarize generates and stores the AI summary of a report.
func (s *Service) Summarize(ctx context.Context, id string) (*Report, error) {
	if s.summarize == nil {
		return nil, fmt.Errorf("report summaries are not configured")
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary, explanation, err := s.summarize(ctx, r)
	if err != nil {
		return nil, err
	}
	r.AISummary = summary
	r.AIExplanation = explanation
	if err := s.reports.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	return r, nil
}
