package analytics

import (
	"sort"
	"strings"

	"food-truck-api/models"
)

// Sort keys accepted by SortOrders.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortAmountHigh = "amount-high"
	SortAmountLow  = "amount-low"
)

type OrderFilter struct {
	TruckID string
	Status  models.OrderStatus
	Search  string
}

// FilterOrders applies the truck, status and free-text filters. Search
// matches the customer name or the order id, ignoring case.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.TruckID != "" && o.TruckID != f.TruckID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.CustomerName), search) &&
			!strings.Contains(strings.ToLower(o.ID), search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ValidSort reports whether key is a known sort order. Empty is valid.
func ValidSort(key string) bool {
	switch key {
	case "", SortNewest, SortOldest, SortAmountHigh, SortAmountLow:
		return true
	}
	return false
}

// SortOrders sorts in place. Unknown keys leave the order untouched.
func SortOrders(orders []models.Order, key string) {
	var less func(a, b models.Order) bool
	switch key {
	case SortNewest:
		less = func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortAmountHigh:
		less = func(a, b models.Order) bool { return a.TotalCost > b.TotalCost }
	case SortAmountLow:
		less = func(a, b models.Order) bool { return a.TotalCost < b.TotalCost }
	default:
		return
	}
	sort.SliceStable(orders, func(i, j int) bool { return less(orders[i], orders[j]) })
}
