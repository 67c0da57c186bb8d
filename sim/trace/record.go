// Package trace records per-customer checkout decisions for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ArrivalRecord captures a customer's request for a counter.
type ArrivalRecord struct {
	CustomerID int64
	Clock      int64
	Queued     bool // false when a counter was free on arrival
	Ahead      int  // requests already in the wait queue
}

// GrantRecord captures a counter assignment.
type GrantRecord struct {
	CustomerID int64
	Clock      int64
	LeaseID    uint64
	Wait       int64 // seconds between request and grant
	Busy       int   // counters busy after this grant
}
