package segment

import (
	"fmt"
	"math"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Dimensions is the number of features in an RFM vector.
const Dimensions = 3

// Vector is a point in standardized RFM space.
type Vector = [Dimensions]float64

// Standardizer holds the frozen per-feature mean and standard deviation.
type Standardizer struct {
	mean   Vector
	stddev Vector
}

// FitStandardizer computes the population mean and standard deviation of
// each feature. A feature with zero variance gets a standard deviation of 1
// so that transforming never divides by zero.
func FitStandardizer(vectors []model.RFM) (*Standardizer, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: cannot standardize an empty population", common.ErrNoTransactions)
	}

	n := float64(len(vectors))
	var s Standardizer

	for _, v := range vectors {
		raw := v.Vector()
		for d := range raw {
			s.mean[d] += raw[d]
		}
	}
	for d := range s.mean {
		s.mean[d] /= n
	}

	for _, v := range vectors {
		raw := v.Vector()
		for d := range raw {
			diff := raw[d] - s.mean[d]
			s.stddev[d] += diff * diff
		}
	}
	for d := range s.stddev {
		s.stddev[d] = math.Sqrt(s.stddev[d] / n)
		if s.stddev[d] == 0 {
			s.stddev[d] = 1
		}
	}

	return &s, nil
}

// NewStandardizer restores a standardizer from previously fitted parameters.
func NewStandardizer(mean, stddev Vector) (*Standardizer, error) {
	for d := range stddev {
		if stddev[d] <= 0 || math.IsNaN(stddev[d]) {
			return nil, fmt.Errorf("%w: stddev[%d] must be positive, got %v", common.ErrConfiguration, d, stddev[d])
		}
	}
	return &Standardizer{mean: mean, stddev: stddev}, nil
}

// Transform maps an RFM vector into standardized space.
func (s *Standardizer) Transform(v model.RFM) Vector {
	return s.TransformRaw(v.Vector())
}

// TransformRaw standardizes a raw (recency, frequency, monetary) triple.
func (s *Standardizer) TransformRaw(raw Vector) Vector {
	var out Vector
	for d := range raw {
		out[d] = (raw[d] - s.mean[d]) / s.stddev[d]
	}
	return out
}

// TransformChecked is Transform for callers that may hold an unfitted value.
func (s *Standardizer) TransformChecked(raw Vector) (Vector, error) {
	if s == nil {
		return Vector{}, fmt.Errorf("%w: standardizer", common.ErrNotFitted)
	}
	return s.TransformRaw(raw), nil
}

// Mean returns the fitted feature means.
func (s *Standardizer) Mean() Vector {
	return s.mean
}

// StdDev returns the fitted (guarded) feature standard deviations.
func (s *Standardizer) StdDev() Vector {
	return s.stddev
}
