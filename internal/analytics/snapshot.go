package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/affinity"
	"github.com/Veraticus/shopper-spectrum/internal/catalog"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/features"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/Veraticus/shopper-spectrum/internal/segment"
	"github.com/google/uuid"
)

// Snapshot is the persisted form of a fitted segmentation model. The
// affinity index is not part of it; it is rebuilt from transactions.
type Snapshot struct {
	CreatedAt        time.Time        `json:"created_at"`
	ReferenceInstant time.Time        `json:"reference_instant"`
	ID               string           `json:"id"`
	Centers          []segment.Vector `json:"centers"`
	Options          Options          `json:"options"`
	Mean             segment.Vector   `json:"mean"`
	StdDev           segment.Vector   `json:"stddev"`
	Customers        int              `json:"customers"`
	Inertia          float64          `json:"inertia"`
}

// Snapshot captures the frozen segmentation state.
func (c *Core) Snapshot() Snapshot {
	return Snapshot{
		ID:               uuid.NewString(),
		CreatedAt:        c.fittedAt,
		ReferenceInstant: c.reference,
		Options:          c.options,
		Mean:             c.standardizer.Mean(),
		StdDev:           c.standardizer.StdDev(),
		Centers:          c.segments.Centers(),
		Customers:        len(c.customers),
		Inertia:          c.segments.Inertia(),
	}
}

// Restore rebuilds a Core from a snapshot without refitting the
// segmentation model. Customers are assigned to the restored centers.
func Restore(ctx context.Context, transactions []model.Transaction, snap Snapshot) (*Core, error) {
	if len(transactions) == 0 {
		return nil, common.ErrNoTransactions
	}
	if err := snap.Options.Validate(); err != nil {
		return nil, err
	}
	if len(snap.Centers) != snap.Options.Clusters {
		return nil, fmt.Errorf("%w: snapshot %s has %d centers for %d clusters",
			common.ErrConfiguration, snap.ID, len(snap.Centers), snap.Options.Clusters)
	}

	standardizer, err := segment.NewStandardizer(snap.Mean, snap.StdDev)
	if err != nil {
		return nil, err
	}
	segments, err := segment.NewModel(snap.Centers)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reference, err := features.ReferenceInstant(transactions)
	if err != nil {
		return nil, err
	}
	if !reference.Equal(snap.ReferenceInstant) {
		slog.Warn("Transactions changed since snapshot; recency uses the current reference instant",
			"snapshot", snap.ID,
			"snapshot_reference", snap.ReferenceInstant,
			"reference", reference)
	}

	vectors, err := features.Build(transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to build RFM features: %w", err)
	}
	customers := features.Sorted(vectors)

	labels := make([]int, len(customers))
	for i, v := range customers {
		if labels[i], err = segments.Predict(standardizer.Transform(v)); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	core := &Core{
		fittedAt:     snap.CreatedAt,
		reference:    reference,
		standardizer: standardizer,
		segments:     segments,
		index:        affinity.Build(affinity.FromTransactions(transactions)),
		catalog:      catalog.Build(transactions),
		customers:    customers,
		labels:       labels,
		options:      snap.Options,
	}

	slog.Info("Analytics core restored from snapshot",
		"snapshot", snap.ID,
		"customers", len(customers),
		"items", core.index.Len())

	return core, nil
}
