package treatmentinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dermai/clinic/internal/domain/medicine"
	"github.com/dermai/clinic/internal/domain/treatment"
	"github.com/dermai/clinic/internal/platform/cache"
	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/store"
)

const (
	defaultTTL = 24 * time.Hour
	// batch generation fans out to the LLM; keep it polite
	batchConcurrency = 4
	maxBatch         = 50
)

// Explainer writes a patient-friendly explanation of an item.
type Explainer func(ctx context.Context, kind, name, details string) (string, error)

// TreatmentLookup and MedicineLookup take canonical ids; the service
// resolves legacy ids once before calling them.
type TreatmentLookup interface {
	GetCanonical(ctx context.Context, id string) (*treatment.Treatment, error)
}

type MedicineLookup interface {
	GetCanonical(ctx context.Context, id string) (*medicine.Medicine, error)
}

// Deps are the collaborators of a Service. Cache and Logger are optional.
type Deps struct {
	Treatments TreatmentLookup
	Medicines  MedicineLookup
	Explain    Explainer
	Cache      cache.Cache
	TTL        time.Duration
	IDs        *idbridge.Bridge
	Logger     zerolog.Logger
}

type Service struct {
	infos Repository
	deps  Deps
	log   zerolog.Logger
}

func NewService(repo Repository, deps Deps) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.TTL <= 0 {
		deps.TTL = defaultTTL
	}
	return &Service{
		infos: repo,
		deps:  deps,
		log:   deps.Logger.With().Str("component", "treatment-info").Logger(),
	}
}

func cacheKey(ctx context.Context, kind, itemID string) string {
	return "treatment-info:" + db.HospitalFromContext(ctx) + ":" + kind + ":" + itemID
}

func checkKind(kind string) error {
	if !validKind(kind) {
		return store.Invalid("item type must be %q or %q", KindTreatment, KindMedicine)
	}
	return nil
}

// Get returns the stored explanation, reading through the cache.
func (s *Service) Get(ctx context.Context, kind, itemID string) (*Info, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	return s.get(ctx, kind, s.deps.IDs.Resolve(itemID))
}

func (s *Service) get(ctx context.Context, kind, itemID string) (*Info, error) {
	key := cacheKey(ctx, kind, itemID)

	if raw, ok, err := s.deps.Cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		var info Info
		if err := json.Unmarshal([]byte(raw), &info); err == nil {
			return &info, nil
		}
	}

	info, err := s.infos.Get(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, info)
	return info, nil
}

func (s *Service) remember(ctx context.Context, key string, info *Info) {
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, string(raw), s.deps.TTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// describe looks the item up and returns its display name and the facts
// the explanation is written from.
func (s *Service) describe(ctx context.Context, kind, itemID string) (name, details string, err error) {
	switch kind {
	case KindTreatment:
		t, err := s.deps.Treatments.GetCanonical(ctx, itemID)
		if err != nil {
			return "", "", err
		}
		parts := []string{t.Description}
		if t.Duration != "" {
			parts = append(parts, "Duration: "+t.Duration)
		}
		return t.Name, strings.TrimSpace(strings.Join(parts, "\n")), nil
	default:
		m, err := s.deps.Medicines.GetCanonical(ctx, itemID)
		if err != nil {
			return "", "", err
		}
		var b strings.Builder
		for _, kv := range [][2]string{{"Type", m.Type}, {"Usage", m.Usage}, {"Dosage", m.Dosage}, {"When to take", m.TimeToTake}} {
			if kv[1] != "" {
				fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
			}
		}
		return m.Name, strings.TrimSpace(b.String()), nil
	}
}

// Generate writes a fresh explanation for the item and stores it.
func (s *Service) Generate(ctx context.Context, kind, itemID string) (*Info, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, store.Invalid("item_id is required")
	}
	return s.generate(ctx, kind, s.deps.IDs.Resolve(itemID))
}

func (s *Service) generate(ctx context.Context, kind, itemID string) (*Info, error) {
	name, details, err := s.describe(ctx, kind, itemID)
	if err != nil {
		return nil, err
	}
	text, err := s.deps.Explain(ctx, kind, name, details)
	if err != nil {
		return nil, err
	}

	info := &Info{ItemType: kind, ItemID: itemID, ItemName: name, Explanation: text}
	if err := s.infos.Upsert(ctx, info); err != nil {
		return nil, fmt.Errorf("store explanation: %w", err)
	}
	s.remember(ctx, cacheKey(ctx, kind, itemID), info)
	return info, nil
}

// GetOrGenerate returns the stored explanation, generating it on a miss.
func (s *Service) GetOrGenerate(ctx context.Context, kind, itemID string) (*Info, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, store.Invalid("item_id is required")
	}
	itemID = s.deps.IDs.Resolve(itemID)
	info, err := s.get(ctx, kind, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return s.generate(ctx, kind, itemID)
	}
	return info, err
}

// Batch resolves every item concurrently. Results keep the order of items;
// the first failure cancels the rest.
func (s *Service) Batch(ctx context.Context, items []ItemRef) ([]*Info, error) {
	if len(items) > maxBatch {
		return nil, store.Invalid("at most %d items per batch", maxBatch)
	}
	for _, it := range items {
		if err := checkKind(it.Type); err != nil {
			return nil, err
		}
	}

	out := make([]*Info, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, it := range items {
		g.Go(func() error {
			info, err := s.GetOrGenerate(gctx, it.Type, it.ID)
			if err != nil {
				return fmt.Errorf("%s %s: %w", it.Type, it.ID, err)
			}
			out[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
