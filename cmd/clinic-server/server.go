package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dermai/clinic/internal/config"
	"github.com/dermai/clinic/internal/domain/assistant"
	"github.com/dermai/clinic/internal/domain/doctor"
	"github.com/dermai/clinic/internal/domain/medicine"
	"github.com/dermai/clinic/internal/domain/patient"
	"github.com/dermai/clinic/internal/domain/queue"
	"github.com/dermai/clinic/internal/domain/report"
	"github.com/dermai/clinic/internal/domain/treatment"
	"github.com/dermai/clinic/internal/domain/treatmentinfo"
	"github.com/dermai/clinic/internal/platform/auth"
	"github.com/dermai/clinic/internal/platform/cache"
	"github.com/dermai/clinic/internal/platform/db"
	"github.com/dermai/clinic/internal/platform/idbridge"
	"github.com/dermai/clinic/internal/platform/llm"
	"github.com/dermai/clinic/internal/platform/middleware"
)

// extra time on top of AI_TIMEOUT for the handler around the model call
const requestSlack = 15 * time.Second

type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	gates  gates
	ids    *idbridge.Bridge
	repos  *repos
	cache  cache.Cache
	llm    llm.Provider
}

func (a *app) jwtConfig() auth.JWTConfig {
	return auth.JWTConfig{
		Issuer:     a.cfg.AuthIssuer,
		SigningKey: []byte(a.cfg.AuthSigningKey),
		Skipper:    auth.AuthSkipper,
	}
}

func (a *app) llmConfig() llm.Config {
	cfg := llm.Config{
		Provider: a.cfg.AIProvider,
		APIKey:   a.cfg.AICredential(),
		Timeout:  a.cfg.AITimeout,
		Retries:  2,
	}
	switch a.cfg.AIProvider {
	case config.ProviderAnthropic:
		cfg.Model, cfg.BaseURL = a.cfg.AnthropicModel, a.cfg.AnthropicBaseURL
	case config.ProviderGemini:
		cfg.Model = a.cfg.GeminiModel
	default:
		cfg.Model, cfg.BaseURL = a.cfg.OpenAIModel, a.cfg.OpenAIBaseURL
	}
	return cfg
}

// connect opens everything the gates marked live. Provider and cache are
// only built for live gates.
func (a *app) connect(ctx context.Context) error {
	r, err := openRepos(ctx, a.cfg, a.gates.store, a.logger)
	if err != nil {
		return err
	}
	a.repos = r

	a.cache = cache.Noop{}
	if !a.gates.cache.IsMock() {
		rc, err := cache.NewRedis(ctx, a.cfg.RedisURL, "clinic:")
		if err != nil {
			// run without the cache and report it as mock
			a.logger.Warn().Err(a.gates.cache.Wrap(err)).Msg("redis unavailable, caching disabled")
			a.gates.cache = a.gates.registry.Add(a.gates.cache.Degraded())
		} else {
			a.cache = rc
		}
	}

	if !a.gates.ai.IsMock() {
		p, err := llm.NewProvider(ctx, a.llmConfig())
		if err != nil {
			return a.gates.ai.Wrap(err)
		}
		a.llm = p
	}
	return nil
}

func (a *app) close() {
	if c, ok := a.cache.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if a.repos != nil {
		a.repos.close()
	}
}

func newServer(a *app) (*echo.Echo, error) {
	cfg := a.cfg

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, db.HospitalHeader, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(cfg.AITimeout + requestSlack))

	if cfg.ResolvedAuthMode() == "development" {
		a.logger.Warn().Msg("development auth: every request runs as admin")
		e.Use(auth.DevAuthMiddleware(a.jwtConfig()))
	} else {
		e.Use(auth.JWTMiddleware(a.jwtConfig()))
	}
	e.Use(db.HospitalMiddleware(cfg.HospitalID))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(a.repos.backend, a.repos.health))

	aiSvc, err := assistant.NewService(a.gates.ai, a.llm, a.logger)
	if err != nil {
		return nil, err
	}

	r := a.repos
	patientSvc := patient.NewService(r.patients, a.ids)
	reportSvc := report.NewService(r.reports, patientSvc, a.ids)
	reportSvc.SetSummarizer(aiSvc.SummarizeReport)
	treatmentSvc := treatment.NewService(r.treatments, a.ids)
	medicineSvc := medicine.NewService(r.medicines, a.ids)
	doctorSvc := doctor.NewService(r.doctors, a.ids)
	queueSvc := queue.NewService(r.queue, a.ids)
	infoSvc := treatmentinfo.NewService(r.infos, treatmentinfo.Deps{
		Treatments: treatmentSvc,
		Medicines:  medicineSvc,
		Explain:    aiSvc.ExplainItem,
		Cache:      a.cache,
		TTL:        cfg.CacheTTL,
		IDs:        a.ids,
		Logger:     a.logger,
	})

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	api.GET("/capabilities", a.gates.registry.Handler())

	patient.NewHandler(patientSvc).RegisterRoutes(api)
	report.NewHandler(reportSvc).RegisterRoutes(api)
	treatment.NewHandler(treatmentSvc).RegisterRoutes(api)
	medicine.NewHandler(medicineSvc).RegisterRoutes(api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)
	queue.NewHandler(queueSvc).RegisterRoutes(api)
	treatmentinfo.NewHandler(infoSvc).RegisterRoutes(api)
	assistant.NewHandler(aiSvc).RegisterRoutes(api)

	return e, nil
}

func serveAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%s", cfg.Port)
}
