package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"food-truck-api/models"
)

func sampleOrders() []models.Order {
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return []models.Order{
		{ID: "o-1", TruckID: "t1", CustomerName: "Ana", Status: models.StatusPending, TotalCost: 10, CreatedAt: base},
		{ID: "o-2", TruckID: "t2", CustomerName: "Ben", Status: models.StatusReady, TotalCost: 25, CreatedAt: base.Add(time.Hour)},
		{ID: "o-3", TruckID: "t1", CustomerName: "Anabel", Status: models.StatusReady, TotalCost: 5, CreatedAt: base.Add(-time.Hour)},
	}
}

func orderIDs(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestFilterOrders(t *testing.T) {
	cases := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"all", OrderFilter{}, []string{"o-1", "o-2", "o-3"}},
		{"truck", OrderFilter{TruckID: "t1"}, []string{"o-1", "o-3"}},
		{"status", OrderFilter{Status: models.StatusReady}, []string{"o-2", "o-3"}},
		{"customer name", OrderFilter{Search: "ANA"}, []string{"o-1", "o-3"}},
		{"order id", OrderFilter{Search: "o-2"}, []string{"o-2"}},
		{"combined", OrderFilter{TruckID: "t1", Status: models.StatusReady}, []string{"o-3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderIDs(FilterOrders(sampleOrders(), tc.filter)))
		})
	}
}

func TestSortOrders(t *testing.T) {
	cases := map[string][]string{
		SortNewest:     {"o-2", "o-1", "o-3"},
		SortOldest:     {"o-3", "o-1", "o-2"},
		SortAmountHigh: {"o-2", "o-1", "o-3"},
		SortAmountLow:  {"o-3", "o-1", "o-2"},
		"bogus":        {"o-1", "o-2", "o-3"},
	}
	for key, want := range cases {
		orders := sampleOrders()
		SortOrders(orders, key)
		assert.Equal(t, want, orderIDs(orders), key)
	}
	assert.True(t, ValidSort(""))
	assert.False(t, ValidSort("bogus"))
}
