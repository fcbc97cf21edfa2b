package ports

import (
	"context"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// ControlsStore persists the controls a node last declared, including any
// user-adjusted values. It lets the host survive full graph reconstruction
// (e.g. a reload) without losing user-entered values.
type ControlsStore interface {
	// Cached retrieves the persisted controls for a node.
	// Returns domain.ErrControlsNotFound if nothing was persisted yet.
	Cached(ctx context.Context, nodeID string) ([]domain.ControlDescriptor, error)

	// Persist stores the controls for a node, replacing any previous set.
	Persist(ctx context.Context, nodeID string, controls []domain.ControlDescriptor) error

	// Delete removes the persisted controls for a node.
	Delete(ctx context.Context, nodeID string) error

	// List returns the node ids that currently have persisted controls.
	List(ctx context.Context) ([]string, error)
}
