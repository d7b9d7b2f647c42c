package service

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/preferences/session"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewRedisStore(client, time.Hour)
	return New(store, logger.New("development")), mr
}

func TestLayout_DefaultsToTopbar(t *testing.T) {
	svc, _ := newRedisService(t)

	layout := svc.Layout(context.Background(), "fresh-session")

	assert.Equal(t, DefaultLayout, layout)
}

func TestSetLayout_RoundTripsThroughRedis(t *testing.T) {
	svc, mr := newRedisService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetLayout(ctx, "sid-1", LayoutSidebar))

	assert.Equal(t, LayoutSidebar, svc.Layout(ctx, "sid-1"))
	// Sessions are independent.
	assert.Equal(t, DefaultLayout, svc.Layout(ctx, "sid-2"))
	// Stored with a TTL so abandoned sessions expire.
	assert.Positive(t, mr.TTL("session:layout:sid-1"))
}

func TestSetLayout_RejectsUnknownValue(t *testing.T) {
	svc, _ := newRedisService(t)

	err := svc.SetLayout(context.Background(), "sid-1", "floating")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}

func TestLayout_ExpiredSessionFallsBackToDefault(t *testing.T) {
	svc, mr := newRedisService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetLayout(ctx, "sid-1", LayoutSidebar))
	mr.FastForward(2 * time.Hour)

	assert.Equal(t, DefaultLayout, svc.Layout(ctx, "sid-1"))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	svc := New(session.NewMemoryStore(), logger.New("development"))
	ctx := context.Background()

	require.NoError(t, svc.SetLayout(ctx, "sid-1", LayoutSidebar))

	assert.Equal(t, LayoutSidebar, svc.Layout(ctx, "sid-1"))
}
