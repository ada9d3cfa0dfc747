package activity

// RecentActivityRequest asks for an owner's newest entries.
type RecentActivityRequest struct {
	OwnerID string `json:"owner_id"`
	Limit   int    `json:"limit,omitempty"`
}

// RecentActivityResponse carries the entries, newest first.
type RecentActivityResponse struct {
	Entries []Entry `json:"entries"`
	Error   string  `json:"error,omitempty"`
}
