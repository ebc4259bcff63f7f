package segment

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Veraticus/shopper-spectrum/internal/common"
)

// Config controls k-means fitting.
type Config struct {
	// K is the number of clusters.
	K int

	// Seed makes fitting reproducible: the same seed and input always
	// produce the same centers.
	Seed uint64

	// Restarts is the number of independent initializations. The run with
	// the lowest inertia wins.
	Restarts int

	// MaxIterations caps the assign/update loop of a single run.
	MaxIterations int
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		K:             4,
		Seed:          42,
		Restarts:      10,
		MaxIterations: 300,
	}
}

// Model holds frozen cluster centers in standardized space.
type Model struct {
	centers    []Vector
	labels     []int
	inertia    float64
	iterations int
}

type run struct {
	centers    []Vector
	labels     []int
	inertia    float64
	iterations int
}

// Fit partitions points into cfg.K clusters.
func Fit(points []Vector, cfg Config) (*Model, error) {
	if cfg.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", common.ErrConfiguration, cfg.K)
	}
	if cfg.K > len(points) {
		return nil, fmt.Errorf("%w: k=%d exceeds %d points", common.ErrConfiguration, cfg.K, len(points))
	}
	if cfg.Restarts <= 0 {
		cfg.Restarts = 1
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}

	var best *run
	for r := 0; r < cfg.Restarts; r++ {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(r)))
		current := lloyd(points, seedCenters(points, cfg.K, rng), cfg.MaxIterations)
		if best == nil || current.inertia < best.inertia {
			best = current
		}
	}

	return &Model{
		centers:    best.centers,
		labels:     best.labels,
		inertia:    best.inertia,
		iterations: best.iterations,
	}, nil
}

// NewModel restores a model from previously fitted centers.
func NewModel(centers []Vector) (*Model, error) {
	if len(centers) == 0 {
		return nil, fmt.Errorf("%w: at least one center is required", common.ErrConfiguration)
	}
	return &Model{centers: append([]Vector(nil), centers...)}, nil
}

// seedCenters picks k initial centers with k-means++ weighting.
func seedCenters(points []Vector, k int, rng *rand.Rand) []Vector {
	centers := make([]Vector, 0, k)
	centers = append(centers, points[rng.IntN(len(points))])

	dist := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			_, d := nearest(centers, p)
			dist[i] = d
			total += d
		}

		if total == 0 {
			// Every point coincides with a center already.
			centers = append(centers, points[rng.IntN(len(points))])
			continue
		}

		target := rng.Float64() * total
		chosen := len(points) - 1
		for i, d := range dist {
			target -= d
			if target < 0 {
				chosen = i
				break
			}
		}
		centers = append(centers, points[chosen])
	}

	return centers
}

// lloyd alternates assignment and update steps until assignments settle.
func lloyd(points []Vector, centers []Vector, maxIterations int) *run {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for {
		changed := false
		for i, p := range points {
			c, _ := nearest(centers, p)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}

		if !changed || iterations >= maxIterations {
			break
		}
		iterations++

		sums := make([]Vector, len(centers))
		counts := make([]int, len(centers))
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}
		for c := range centers {
			// An empty cluster keeps its previous center.
			if counts[c] == 0 {
				continue
			}
			for d := range sums[c] {
				centers[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centers[labels[i]])
	}

	return &run{
		centers:    centers,
		labels:     labels,
		inertia:    inertia,
		iterations: iterations,
	}
}

// nearest returns the index of the closest center and its squared distance.
// Ties go to the lowest index.
func nearest(centers []Vector, p Vector) (int, float64) {
	best := 0
	bestDist := math.Inf(1)
	for c := range centers {
		if d := squaredDistance(p, centers[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist
}

func squaredDistance(a, b Vector) float64 {
	var sum float64
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}

// Predict assigns v to the nearest frozen center.
func (m *Model) Predict(v Vector) (int, error) {
	if m == nil || len(m.centers) == 0 {
		return 0, fmt.Errorf("%w: segment model", common.ErrNotFitted)
	}
	label, _ := nearest(m.centers, v)
	return label, nil
}

// K returns the number of clusters.
func (m *Model) K() int {
	return len(m.centers)
}

// Centers returns a copy of the fitted centers.
func (m *Model) Centers() []Vector {
	return append([]Vector(nil), m.centers...)
}

// Labels returns a copy of the training assignments, in input order.
// Restored models have no training labels.
func (m *Model) Labels() []int {
	return append([]int(nil), m.labels...)
}

// Inertia is the total within-cluster squared distance of the winning run.
func (m *Model) Inertia() float64 {
	return m.inertia
}

// Iterations is the number of update steps the winning run took.
func (m *Model) Iterations() int {
	return m.iterations
}
