package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:admin"

// DashboardCache is the cache-aside surface the dashboard relies on.
type DashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

type dashboardLicenciaRepository interface {
	ListAll(ctx context.Context) ([]models.LicenciaConProfesor, error)
	CountByEstado(ctx context.Context) (map[models.LicenciaEstado]int, error)
}

type dashboardProfesorRepository interface {
	List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error)
}

// AdminDashboard aggregates everything the admin landing view needs:
// the teacher roster and the full leave request list with state totals.
type AdminDashboard struct {
	Profesores  []models.Profesor            `json:"profesores"`
	Licencias   []models.LicenciaConProfesor `json:"licencias"`
	Pendientes  int                          `json:"pendientes"`
	Aprobadas   int                          `json:"aprobadas"`
	Rechazadas  int                          `json:"rechazadas"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// DashboardService builds the admin dashboard aggregate with an optional
// cache-aside layer.
type DashboardService struct {
	profesores dashboardProfesorRepository
	licencias  dashboardLicenciaRepository
	cache      DashboardCache
	metrics    *MetricsService
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewDashboardService constructs a DashboardService. A nil cache disables
// caching entirely.
func NewDashboardService(profesores dashboardProfesorRepository, licencias dashboardLicenciaRepository, cache DashboardCache, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		profesores: profesores,
		licencias:  licencias,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// Admin returns the admin dashboard aggregate, served from cache when
// fresh.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	if s.cache != nil {
		start := time.Now()
		var cached AdminDashboard
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(start))
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	dashboard, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, dashboardCacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}

	return dashboard, nil
}

// Invalidate drops the cached aggregate. Called after any mutation of
// teachers or leave requests.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, dashboardCacheKey)
	}
}

// rosterPageSize bounds each roster fetch while build pages through the
// whole table.
const rosterPageSize = 100

func (s *DashboardService) build(ctx context.Context) (*AdminDashboard, error) {
	var profesores []models.Profesor
	for page := 1; ; page++ {
		batch, total, err := s.profesores.List(ctx, models.ProfesorFilter{Page: page, PageSize: rosterPageSize})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profesores")
		}
		profesores = append(profesores, batch...)
		if len(batch) < rosterPageSize || len(profesores) >= total {
			break
		}
	}

	licencias, err := s.licencias.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load licencias")
	}

	counts, err := s.licencias.CountByEstado(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count licencias")
	}

	return &AdminDashboard{
		Profesores:  profesores,
		Licencias:   licencias,
		Pendientes:  counts[models.EstadoPendiente],
		Aprobadas:   counts[models.EstadoAprobada],
		Rechazadas:  counts[models.EstadoRechazada],
		GeneratedAt: time.Now().UTC(),
	}, nil
}
