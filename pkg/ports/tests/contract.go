package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/ports"
)

// RunControlsStoreContract is a reusable suite verifying that an adapter
// complies with ports.ControlsStore semantics.
func RunControlsStoreContract(t *testing.T, store ports.ControlsStore) {
	t.Helper()
	ctx := context.Background()

	controls := []domain.ControlDescriptor{
		{Name: "speed", Kind: domain.ControlSlider, Default: 1.0, Value: 7.0, Range: &domain.ControlRange{Min: 0, Max: 10, Step: 1}},
		{Name: "label", Kind: domain.ControlText, Default: "hello"},
	}

	t.Run("Cached_NotFound", func(t *testing.T) {
		_, err := store.Cached(ctx, "missing-node")
		if !errors.Is(err, domain.ErrControlsNotFound) {
			t.Fatalf("expected ErrControlsNotFound, got %v", err)
		}
	})

	t.Run("Persist_Then_Cached", func(t *testing.T) {
		if err := store.Persist(ctx, "n1", controls); err != nil {
			t.Fatalf("persist failed: %v", err)
		}

		got, err := store.Cached(ctx, "n1")
		if err != nil {
			t.Fatalf("cached failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 controls, got %d", len(got))
		}
		if got[0].Name != "speed" || got[1].Name != "label" {
			t.Errorf("declaration order not preserved: %v", got)
		}
		if got[0].Range == nil || got[0].Range.Max != 10 {
			t.Errorf("slider range not round-tripped: %+v", got[0].Range)
		}
	})

	t.Run("Persist_Replaces", func(t *testing.T) {
		replacement := []domain.ControlDescriptor{
			{Name: "label", Kind: domain.ControlText, Default: "bye"},
		}
		if err := store.Persist(ctx, "n1", replacement); err != nil {
			t.Fatalf("persist failed: %v", err)
		}
		got, err := store.Cached(ctx, "n1")
		if err != nil {
			t.Fatalf("cached failed: %v", err)
		}
		if len(got) != 1 || got[0].Name != "label" {
			t.Errorf("expected replacement set, got %v", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Persist(ctx, "n2", controls); err != nil {
			t.Fatalf("persist failed: %v", err)
		}
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		lookup := make(map[string]bool, len(ids))
		for _, id := range ids {
			lookup[id] = true
		}
		if !lookup["n1"] || !lookup["n2"] {
			t.Errorf("expected n1 and n2 in list, got %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "n1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Cached(ctx, "n1"); !errors.Is(err, domain.ErrControlsNotFound) {
			t.Fatalf("expected ErrControlsNotFound after delete, got %v", err)
		}
	})
}
