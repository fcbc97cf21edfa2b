package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/adapters/redis"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports/tests"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	tests.RunControlsStoreContract(t, newTestStore(t))
}

func TestRedisStore_RoundTripsSliderRange(t *testing.T) {
	store := newTestStore(t, redis.WithPrefix("test:controls:"), redis.WithTTL(time.Hour))
	ctx := context.Background()

	in := []domain.ControlDescriptor{
		{
			Name:    "speed",
			Kind:    domain.ControlSlider,
			Default: 1.0,
			Value:   7.0,
			Range:   &domain.ControlRange{Min: 0, Max: 10, Step: 0.5},
		},
	}
	if err := store.Persist(ctx, "n1", in); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	out, err := store.Cached(ctx, "n1")
	if err != nil {
		t.Fatalf("cached failed: %v", err)
	}
	if out[0].Range == nil || out[0].Range.Step != 0.5 {
		t.Errorf("range lost in round trip: %+v", out[0].Range)
	}
	if out[0].Value != 7.0 {
		t.Errorf("value lost in round trip: %v", out[0].Value)
	}
}
