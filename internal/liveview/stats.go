package liveview

import (
	"math"

	"github.com/shopspring/decimal"

	"frontdesk-backend/internal/model"
)

// ComputeStats derives the aggregate statistics from the two live snapshots.
func ComputeStats(orders []model.Order, requests []model.ServiceRequest, totalTables int) model.Stats {
	revenue := decimal.Zero
	tables := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		tables[o.TableNumber] = struct{}{}
	}

	return model.Stats{
		ActiveOrders:    len(orders),
		TotalRevenue:    revenue.InexactFloat64(),
		OccupiedTables:  len(tables),
		TotalTables:     totalTables,
		PendingRequests: len(requests),
	}
}

// CapacityPercentage is the share of tables occupied, rounded to a whole percent.
func CapacityPercentage(s model.Stats) int {
	if s.TotalTables <= 0 {
		return 0
	}
	return int(math.Round(float64(s.OccupiedTables) / float64(s.TotalTables) * 100))
}
