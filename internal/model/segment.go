package model

// SegmentProfile summarizes the customers assigned to one cluster.
type SegmentProfile struct {
	Cluster       int     `json:"cluster"`
	Customers     int     `json:"customers"`
	MeanRecency   float64 `json:"mean_recency"`
	MeanFrequency float64 `json:"mean_frequency"`
	MeanMonetary  float64 `json:"mean_monetary"`
}

// Label returns a coarse business reading of the profile relative to the
// population means.
func (p SegmentProfile) Label(population SegmentProfile) string {
	recent := p.MeanRecency <= population.MeanRecency
	frequent := p.MeanFrequency >= population.MeanFrequency
	spender := p.MeanMonetary >= population.MeanMonetary

	switch {
	case recent && frequent && spender:
		return "High-Value"
	case recent && (frequent || spender):
		return "Regular"
	case recent:
		return "Occasional"
	default:
		return "At-Risk"
	}
}

// SegmentAssignment maps a customer to its fitted cluster.
type SegmentAssignment struct {
	CustomerID string `json:"customer_id"`
	RFM        RFM    `json:"rfm"`
	Cluster    int    `json:"cluster"`
}
