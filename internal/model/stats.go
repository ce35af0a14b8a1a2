package model

// Stats is the aggregate view derived from the live order and request snapshots.
type Stats struct {
	ActiveOrders    int     `json:"activeOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	OccupiedTables  int     `json:"occupiedTables"`
	TotalTables     int     `json:"totalTables"`
	PendingRequests int     `json:"pendingRequests"`
}
