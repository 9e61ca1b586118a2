package types

// Filter represents the query parameters for order search.
// Search is matched as a case-insensitive substring; Status, when set,
// must match exactly.
type Filter struct {
	Search string `json:"search,omitempty"`
	Status string `json:"status,omitempty"`
}
