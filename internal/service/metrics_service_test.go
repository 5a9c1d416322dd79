package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	appErrors "github.com/noah-isme/clerkship-scheduler/pkg/errors"
)

func TestMetricsServiceObserveGapFill(t *testing.T) {
	m := NewMetricsService()
	m.ObserveGapFill(map[int]int{1: 4, 2: 1}, 2, 1, 3, false, 120*time.Millisecond)
	m.ObserveGapFill(map[int]int{1: 1}, 1, 0, 0, true, 10*time.Millisecond)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.assignments.WithLabelValues("1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.assignments.WithLabelValues("2")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.outcomes.WithLabelValues(OutcomeFulfilled)))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.outcomes.WithLabelValues(OutcomeUnmet)))

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.SchedulingRuns)
	assert.Equal(t, uint64(6), snap.AssignmentsCreated)
}

func TestMetricsServiceHandlerAndSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/scheduling/gap-fill", http.StatusOK, 40*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.InDelta(t, 40, snap.AverageRequestDurationMs, 0.0001)

	var nilMetrics *MetricsService
	nilMetrics.ObserveGapFill(nil, 0, 0, 0, false, 0)
	assert.Equal(t, models.SystemMetrics{}, nilMetrics.Snapshot())
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCacheServiceHitMissAndError(t *testing.T) {
	repo := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, 0, zap.NewNop(), true)
	ctx := context.Background()

	var dest map[string]int
	hit, err := svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, 0))
	hit, err = svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, dest["a"])

	repo.err = errors.New("redis down")
	hit, err = svc.Get(ctx, "k", &dest)
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheHits)
	assert.Equal(t, uint64(2), metrics.Snapshot().CacheMisses)

	disabled := NewCacheService(repo, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
	hit, err = disabled.Get(ctx, "k", &dest)
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, disabled.Invalidate(ctx, "*"))
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "clerkship-scheduler"})
	token, expiresAt, err := svc.Issue("u1", "coord@example.edu", models.RoleCoordinator)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)

	other := NewTokenService(TokenConfig{Secret: "different"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	expired := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.Issue("u1", "", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
