package analytics

import (
	"github.com/Veraticus/shopper-spectrum/internal/model"
)

// Profiles returns the customer count and mean RFM of every cluster,
// ordered by cluster label. Empty clusters are included with zero counts.
func (c *Core) Profiles() []model.SegmentProfile {
	k := c.segments.K()
	profiles := make([]model.SegmentProfile, k)
	for i := range profiles {
		profiles[i].Cluster = i
	}

	for i, v := range c.customers {
		p := &profiles[c.labels[i]]
		p.Customers++
		p.MeanRecency += float64(v.Recency)
		p.MeanFrequency += float64(v.Frequency)
		p.MeanMonetary += v.Monetary
	}

	for i := range profiles {
		p := &profiles[i]
		if p.Customers == 0 {
			continue
		}
		n := float64(p.Customers)
		p.MeanRecency /= n
		p.MeanFrequency /= n
		p.MeanMonetary /= n
	}

	return profiles
}

// Population returns the profile of the whole customer population.
// Its Cluster field is -1.
func (c *Core) Population() model.SegmentProfile {
	p := model.SegmentProfile{Cluster: -1, Customers: len(c.customers)}
	if p.Customers == 0 {
		return p
	}

	for _, v := range c.customers {
		p.MeanRecency += float64(v.Recency)
		p.MeanFrequency += float64(v.Frequency)
		p.MeanMonetary += v.Monetary
	}
	n := float64(p.Customers)
	p.MeanRecency /= n
	p.MeanFrequency /= n
	p.MeanMonetary /= n
	return p
}

// Segments returns every customer's RFM vector and cluster, ordered by customer ID.
func (c *Core) Segments() []model.SegmentAssignment {
	assignments := make([]model.SegmentAssignment, len(c.customers))
	for i, v := range c.customers {
		assignments[i] = model.SegmentAssignment{
			CustomerID: v.CustomerID,
			RFM:        v,
			Cluster:    c.labels[i],
		}
	}
	return assignments
}

// Summary reports the size of the fitted state.
type Summary struct {
	Customers int     `json:"customers"`
	Items     int     `json:"items"`
	Clusters  int     `json:"clusters"`
	Inertia   float64 `json:"inertia"`
}

// Summary returns counts describing the fitted state.
func (c *Core) Summary() Summary {
	return Summary{
		Customers: len(c.customers),
		Items:     c.index.Len(),
		Clusters:  c.segments.K(),
		Inertia:   c.segments.Inertia(),
	}
}
