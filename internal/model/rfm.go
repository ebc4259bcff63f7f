package model

// RFM holds the Recency, Frequency and Monetary features of one customer.
type RFM struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`   // Days between the reference instant and the latest purchase
	Frequency  int     `json:"frequency"` // Distinct invoices
	Monetary   float64 `json:"monetary"`  // Sum of quantity x unit price
}

// Vector returns the features in Recency, Frequency, Monetary order.
func (r RFM) Vector() [3]float64 {
	return [3]float64{float64(r.Recency), float64(r.Frequency), r.Monetary}
}
