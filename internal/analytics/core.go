// Package analytics wires the feature, segmentation, affinity and catalog
// components into a single value that is fit once and queried many times.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/affinity"
	"github.com/Veraticus/shopper-spectrum/internal/catalog"
	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/features"
	"github.com/Veraticus/shopper-spectrum/internal/model"
	"github.com/Veraticus/shopper-spectrum/internal/segment"
	"golang.org/x/sync/errgroup"
)

// Core holds every fitted component. It is immutable after Build or Restore
// and safe for concurrent queries.
type Core struct {
	fittedAt     time.Time
	reference    time.Time
	standardizer *segment.Standardizer
	segments     *segment.Model
	index        *affinity.Index
	catalog      *catalog.Catalog
	customers    []model.RFM
	labels       []int
	options      Options
}

// Recommendation is a similar product returned by RecommendDetailed.
type Recommendation struct {
	ItemID string  `json:"item_id"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
}

// Build fits every component over transactions. Any failure aborts the build;
// a partially fitted Core is never returned.
func Build(ctx context.Context, transactions []model.Transaction, opts Options) (*Core, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, common.ErrNoTransactions
	}

	start := time.Now()
	core := &Core{options: opts}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return core.fitSegments(gctx, transactions)
	})
	g.Go(func() error {
		return core.fitAffinity(gctx, transactions)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	core.fittedAt = time.Now()
	slog.Info("Analytics core fitted",
		"transactions", len(transactions),
		"customers", len(core.customers),
		"items", core.index.Len(),
		"clusters", core.segments.K(),
		"inertia", core.segments.Inertia(),
		"duration", time.Since(start))

	return core, nil
}

func (c *Core) fitSegments(ctx context.Context, transactions []model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reference, err := features.ReferenceInstant(transactions)
	if err != nil {
		return err
	}
	vectors, err := features.Build(transactions)
	if err != nil {
		return fmt.Errorf("failed to build RFM features: %w", err)
	}
	customers := features.Sorted(vectors)

	standardizer, err := segment.FitStandardizer(customers)
	if err != nil {
		return fmt.Errorf("failed to fit standardizer: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	points := make([]segment.Vector, len(customers))
	for i, v := range customers {
		points[i] = standardizer.Transform(v)
	}

	segments, err := segment.Fit(points, c.options.segmentConfig())
	if err != nil {
		return fmt.Errorf("failed to fit segments: %w", err)
	}

	c.reference = reference
	c.customers = customers
	c.standardizer = standardizer
	c.segments = segments
	c.labels = segments.Labels()
	return nil
}

func (c *Core) fitAffinity(ctx context.Context, transactions []model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.catalog = catalog.Build(transactions)
	c.index = affinity.Build(affinity.FromTransactions(transactions))
	return nil
}

// Recommend returns the labels of up to n products most similar to the
// product with the given label. n <= 0 uses the configured default. An empty
// result means no similar products exist.
func (c *Core) Recommend(label string, n int) ([]string, error) {
	recs, err := c.RecommendDetailed(label, n)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(recs))
	for i, r := range recs {
		labels[i] = r.Label
	}
	return labels, nil
}

// RecommendDetailed is Recommend with item IDs and similarity scores.
func (c *Core) RecommendDetailed(label string, n int) ([]Recommendation, error) {
	if c == nil || c.index == nil {
		return nil, fmt.Errorf("%w: affinity index", common.ErrNotFitted)
	}
	if n <= 0 {
		n = c.options.TopN
	}

	itemID, err := c.catalog.IDOf(label)
	if err != nil {
		return nil, err
	}

	neighbors, err := c.index.Neighbors(itemID, n)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(neighbors))
	for _, nb := range neighbors {
		neighborLabel, err := c.catalog.LabelOf(nb.ItemID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Recommendation{ItemID: nb.ItemID, Label: neighborLabel, Score: nb.Score})
	}
	return recs, nil
}

// PredictSegment standardizes an ad-hoc RFM triple with the frozen
// parameters and returns its nearest cluster.
func (c *Core) PredictSegment(recency, frequency, monetary float64) (int, error) {
	if c == nil || c.segments == nil {
		return 0, fmt.Errorf("%w: segment model", common.ErrNotFitted)
	}

	raw := segment.Vector{recency, frequency, monetary}
	for d, x := range raw {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return 0, fmt.Errorf("%w: %s must be a non-negative number, got %v", common.ErrConfiguration, featureNames[d], x)
		}
	}

	z, err := c.standardizer.TransformChecked(raw)
	if err != nil {
		return 0, err
	}
	return c.segments.Predict(z)
}

var featureNames = [segment.Dimensions]string{"recency", "frequency", "monetary"}

// Labels returns every product label in ascending order.
func (c *Core) Labels() []string {
	return c.catalog.Labels()
}

// Catalog exposes the product catalog.
func (c *Core) Catalog() *catalog.Catalog {
	return c.catalog
}

// Options returns the options the core was built with.
func (c *Core) Options() Options {
	return c.options
}

// FittedAt returns when fitting finished.
func (c *Core) FittedAt() time.Time {
	return c.fittedAt
}

// ReferenceInstant returns the instant recency was measured from.
func (c *Core) ReferenceInstant() time.Time {
	return c.reference
}
