package liveview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"frontdesk-backend/internal/model"
)

func TestComputeStats(t *testing.T) {
	testCases := []struct {
		name     string
		orders   []model.Order
		requests []model.ServiceRequest
		expected model.Stats
	}{
		{
			name:     "empty snapshots",
			expected: model.Stats{TotalTables: 20},
		},
		{
			name: "orders sharing a table count it once",
			orders: []model.Order{
				{ID: "a", TableNumber: 3, TotalAmount: 500, Status: model.OrderWaiting},
				{ID: "b", TableNumber: 3, TotalAmount: 200, Status: model.OrderReady},
				{ID: "c", TableNumber: 5, TotalAmount: 100, Status: model.OrderPreparing},
			},
			expected: model.Stats{ActiveOrders: 3, TotalRevenue: 800, OccupiedTables: 2, TotalTables: 20},
		},
		{
			name: "requests only",
			requests: []model.ServiceRequest{
				{ID: "r1", TableNumber: 1},
				{ID: "r2", TableNumber: 1},
			},
			expected: model.Stats{TotalTables: 20, PendingRequests: 2},
		},
		{
			name: "fractional totals sum exactly",
			orders: []model.Order{
				{ID: "a", TableNumber: 1, TotalAmount: 0.1},
				{ID: "b", TableNumber: 2, TotalAmount: 0.2},
			},
			expected: model.Stats{ActiveOrders: 2, TotalRevenue: 0.3, OccupiedTables: 2, TotalTables: 20},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first := ComputeStats(tc.orders, tc.requests, 20)
			second := ComputeStats(tc.orders, tc.requests, 20)

			assert.Equal(t, tc.expected, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestCapacityPercentage(t *testing.T) {
	assert.Equal(t, 10, CapacityPercentage(model.Stats{OccupiedTables: 2, TotalTables: 20}))
	assert.Equal(t, 33, CapacityPercentage(model.Stats{OccupiedTables: 1, TotalTables: 3}))
	assert.Equal(t, 0, CapacityPercentage(model.Stats{OccupiedTables: 1}))
}
