package affinity

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/shopper-spectrum/internal/common"
)

// Neighbor is an item similar to a query item.
type Neighbor struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// Index is a frozen dense item-item cosine similarity matrix.
type Index struct {
	position map[string]int
	items    []string
	sim      []float64 // row-major len(items) x len(items)
}

// Build computes the cosine similarity between every pair of item columns.
// An item with a zero column has similarity 0 with every item, itself included.
func Build(in *Interactions) *Index {
	items := in.Items()
	n := len(items)

	position := make(map[string]int, n)
	for i, id := range items {
		position[id] = i
	}

	dots := make([]float64, n*n)
	norms := make([]float64, n)
	cols := make([]int, 0)
	vals := make([]float64, 0)

	// Customers are summed in ID order so scores are bit-identical across runs.
	for _, customer := range in.customerIDs() {
		row := in.quantities[customer]
		cols = cols[:0]
		vals = vals[:0]
		for item, qty := range row {
			if qty == 0 {
				continue
			}
			cols = append(cols, position[item])
			vals = append(vals, qty)
		}

		for a := range cols {
			i := cols[a]
			norms[i] += vals[a] * vals[a]
			for b := a + 1; b < len(cols); b++ {
				j := cols[b]
				if i < j {
					dots[i*n+j] += vals[a] * vals[b]
				} else {
					dots[j*n+i] += vals[a] * vals[b]
				}
			}
		}
	}

	for i := range norms {
		norms[i] = math.Sqrt(norms[i])
	}

	sim := make([]float64, n*n)
	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		sim[i*n+i] = 1
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			s := math.Min(dots[i*n+j]/(norms[i]*norms[j]), 1)
			sim[i*n+j] = s
			sim[j*n+i] = s
		}
	}

	return &Index{
		position: position,
		items:    items,
		sim:      sim,
	}
}

// Neighbors returns up to topN items most similar to itemID, excluding the
// item itself, ordered by descending score and then ascending item ID. Only
// items with a positive score are returned; an empty result means no item
// shares any purchases with itemID.
func (x *Index) Neighbors(itemID string, topN int) ([]Neighbor, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", common.ErrConfiguration, topN)
	}

	row, ok := x.position[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownItem, itemID)
	}

	n := len(x.items)
	scores := x.sim[row*n : (row+1)*n]

	candidates := make([]Neighbor, 0, n)
	for col, score := range scores {
		if col == row || score <= 0 {
			continue
		}
		candidates = append(candidates, Neighbor{ItemID: x.items[col], Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// Similarity returns the cosine similarity between two items.
func (x *Index) Similarity(a, b string) (float64, error) {
	i, ok := x.position[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrUnknownItem, a)
	}
	j, ok := x.position[b]
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrUnknownItem, b)
	}
	return x.sim[i*len(x.items)+j], nil
}

// Contains reports whether itemID is part of the matrix.
func (x *Index) Contains(itemID string) bool {
	_, ok := x.position[itemID]
	return ok
}

// Items returns the indexed item IDs in matrix order.
func (x *Index) Items() []string {
	return append([]string(nil), x.items...)
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	return len(x.items)
}
