// Package segment standardizes RFM vectors and clusters them with k-means.
//
// Both the Standardizer and the Model are fit exactly once and are read-only
// afterwards, so a single value can serve concurrent queries without locking.
package segment
