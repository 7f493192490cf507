package rebalance

// Group is a reporting label gathering positions. It plays no role in the
// optimization.
type Group struct {
	ID       string   `json:"id"`
	Currency Currency `json:"currency"`
}
