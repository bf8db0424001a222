package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/licencias-api/internal/models"
	appErrors "github.com/colegiosys/licencias-api/pkg/errors"
)

type fakeDashboardCache struct {
	entries map[string][]byte
	gets    int
	sets    int
	deletes int
}

func newFakeDashboardCache() *fakeDashboardCache {
	return &fakeDashboardCache{entries: make(map[string][]byte)}
}

func (f *fakeDashboardCache) Get(_ context.Context, key string, dest interface{}) error {
	f.gets++
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeDashboardCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeDashboardCache) Delete(_ context.Context, key string) {
	f.deletes++
	delete(f.entries, key)
}

type fakeDashboardProfesorRepo struct {
	profesores []models.Profesor
	calls      int
}

func (f *fakeDashboardProfesorRepo) List(_ context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error) {
	f.calls++
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	if start >= len(f.profesores) {
		return nil, len(f.profesores), nil
	}
	end := start + size
	if end > len(f.profesores) {
		end = len(f.profesores)
	}
	return f.profesores[start:end], len(f.profesores), nil
}

type fakeDashboardLicenciaRepo struct {
	licencias []models.LicenciaConProfesor
	counts    map[models.LicenciaEstado]int
}

func (f *fakeDashboardLicenciaRepo) ListAll(_ context.Context) ([]models.LicenciaConProfesor, error) {
	return f.licencias, nil
}

func (f *fakeDashboardLicenciaRepo) CountByEstado(_ context.Context) (map[models.LicenciaEstado]int, error) {
	return f.counts, nil
}

func newDashboardFixtures() (*fakeDashboardProfesorRepo, *fakeDashboardLicenciaRepo) {
	nombre := "Ana López"
	profesores := &fakeDashboardProfesorRepo{profesores: []models.Profesor{
		{ID: 1, Carnet: models.AdminCarnet},
		{ID: 2, Carnet: "t1", Nombre: nombre},
	}}
	licencias := &fakeDashboardLicenciaRepo{
		licencias: []models.LicenciaConProfesor{
			{Licencia: models.Licencia{ID: 11, ProfesorID: 2, Estado: models.EstadoPendiente}, ProfesorNombre: &nombre},
		},
		counts: map[models.LicenciaEstado]int{
			models.EstadoPendiente: 1,
		},
	}
	return profesores, licencias
}

func TestDashboardServiceAdmin(t *testing.T) {
	profesores, licencias := newDashboardFixtures()
	svc := NewDashboardService(profesores, licencias, nil, nil, nil, 0)

	dashboard, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Len(t, dashboard.Profesores, 2)
	assert.Len(t, dashboard.Licencias, 1)
	assert.Equal(t, 1, dashboard.Pendientes)
	assert.Zero(t, dashboard.Aprobadas)
	assert.Zero(t, dashboard.Rechazadas)
	assert.False(t, dashboard.GeneratedAt.IsZero())
}

func TestDashboardServiceAdminFullRoster(t *testing.T) {
	profesores := &fakeDashboardProfesorRepo{}
	for i := 0; i < 250; i++ {
		profesores.profesores = append(profesores.profesores, models.Profesor{ID: int64(i + 1), Carnet: fmt.Sprintf("t%d", i+1)})
	}
	licencias := &fakeDashboardLicenciaRepo{counts: map[models.LicenciaEstado]int{}}
	svc := NewDashboardService(profesores, licencias, nil, nil, nil, 0)

	dashboard, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Len(t, dashboard.Profesores, 250)
	assert.Equal(t, 3, profesores.calls)
}

func TestDashboardServiceAdminCacheAside(t *testing.T) {
	profesores, licencias := newDashboardFixtures()
	cache := newFakeDashboardCache()
	svc := NewDashboardService(profesores, licencias, cache, nil, nil, time.Minute)

	first, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, profesores.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, profesores.calls, "second read must come from cache")
	assert.Equal(t, first.Pendientes, second.Pendientes)
	assert.Len(t, second.Profesores, 2)
}

func TestDashboardServiceInvalidate(t *testing.T) {
	profesores, licencias := newDashboardFixtures()
	cache := newFakeDashboardCache()
	svc := NewDashboardService(profesores, licencias, cache, nil, nil, time.Minute)

	_, err := svc.Admin(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())
	assert.Equal(t, 1, cache.deletes)

	_, err = svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, profesores.calls, "invalidation must force a rebuild")
}
