package analytics

import (
	"fmt"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/segment"
)

// Options configures a Core build.
type Options struct {
	// Clusters is the number of customer segments.
	Clusters int `json:"clusters"`

	// TopN is the default number of recommendations per query.
	TopN int `json:"top_n"`

	// Seed drives k-means initialization.
	Seed uint64 `json:"seed"`

	// Restarts is the number of independent k-means runs.
	Restarts int `json:"restarts"`

	// MaxIterations caps each k-means run.
	MaxIterations int `json:"max_iterations"`
}

// DefaultOptions returns the default build options.
func DefaultOptions() Options {
	seg := segment.DefaultConfig()
	return Options{
		Clusters:      seg.K,
		TopN:          5,
		Seed:          seg.Seed,
		Restarts:      seg.Restarts,
		MaxIterations: seg.MaxIterations,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Clusters <= 0 {
		return fmt.Errorf("%w: clusters must be positive, got %d", common.ErrConfiguration, o.Clusters)
	}
	if o.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", common.ErrConfiguration, o.TopN)
	}
	if o.Restarts <= 0 {
		return fmt.Errorf("%w: restarts must be positive, got %d", common.ErrConfiguration, o.Restarts)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", common.ErrConfiguration, o.MaxIterations)
	}
	return nil
}

func (o Options) segmentConfig() segment.Config {
	return segment.Config{
		K:             o.Clusters,
		Seed:          o.Seed,
		Restarts:      o.Restarts,
		MaxIterations: o.MaxIterations,
	}
}
