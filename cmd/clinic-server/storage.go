package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dermai/clinic/internal/config"
	"github.com/dermai/clinic/internal/domain/doctor"
	"github.com/dermai/clinic/internal/domain/medicine"
	"github.com/dermai/clinic/internal/domain/patient"
	"github.com/dermai/clinic/internal/domain/queue"
	"github.com/dermai/clinic/internal/domain/report"
	"github.com/dermai/clinic/internal/domain/treatment"
	"github.com/dermai/clinic/internal/domain/treatmentinfo"
	"github.com/dermai/clinic/internal/platform/capability"
	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/docstore"
)

// repos is one storage backend's set of repositories.
type repos struct {
	backend string
	health  db.Pinger
	close   func()

	patients   patient.Repository
	reports    report.Repository
	treatments treatment.Repository
	medicines  medicine.Repository
	doctors    doctor.Repository
	queue      queue.Repository
	infos      treatmentinfo.Repository
}

type memoryHealth struct{}

func (memoryHealth) Ping(context.Context) error { return nil }

func memoryRepos() *repos {
	return &repos{
		backend:    config.BackendMemory,
		health:     memoryHealth{},
		close:      func() {},
		patients:   patient.NewRepoMem(),
		reports:    report.NewRepoMem(),
		treatments: treatment.NewRepoMem(),
		medicines:  medicine.NewRepoMem(),
		doctors:    doctor.NewRepoMem(),
		queue:      queue.NewRepoMem(),
		infos:      treatmentinfo.NewRepoMem(),
	}
}

func postgresRepos(pool *pgxpool.Pool) *repos {
	return &repos{
		backend:    config.BackendPostgres,
		health:     pool,
		close:      pool.Close,
		patients:   patient.NewRepoPG(pool),
		reports:    report.NewRepoPG(pool),
		treatments: treatment.NewRepoPG(pool),
		medicines:  medicine.NewRepoPG(pool),
		doctors:    doctor.NewRepoPG(pool),
		queue:      queue.NewRepoPG(pool),
		infos:      treatmentinfo.NewRepoPG(pool),
	}
}

func firestoreRepos(client *docstore.Client) *repos {
	return &repos{
		backend:    config.BackendFirestore,
		health:     client,
		close:      func() { _ = client.Close() },
		patients:   patient.NewRepoFS(client),
		reports:    report.NewRepoFS(client),
		treatments: treatment.NewRepoFS(client),
		medicines:  medicine.NewRepoFS(client),
		doctors:    doctor.NewRepoFS(client),
		queue:      queue.NewRepoFS(client),
		infos:      treatmentinfo.NewRepoFS(client),
	}
}

// openRepos connects the backend the store gate decided on. A mock gate
// means the in-memory store; a live backend that cannot be reached is an
// error, not a silent fallback.
func openRepos(ctx context.Context, cfg *config.Config, gate *capability.Gate, logger zerolog.Logger) (*repos, error) {
	if gate.IsMock() {
		logger.Warn().Str("capability", gate.Capability()).Msg("using in-memory store; data is lost on restart")
		return memoryRepos(), nil
	}

	switch cfg.ResolvedStoreBackend() {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, gate.Wrap(err)
		}
		logger.Info().Msg("connected to postgres")
		return postgresRepos(pool), nil
	case config.BackendFirestore:
		client, err := docstore.Open(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
		if err != nil {
			return nil, gate.Wrap(err)
		}
		logger.Info().Str("project", cfg.FirebaseProjectID).Msg("connected to firestore")
		return firestoreRepos(client), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.ResolvedStoreBackend())
	}
}
