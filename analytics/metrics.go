// Package analytics holds the derived views the dashboards render: today's
// performance, truck filtering and order filtering/sorting. Nothing here
// touches the database.
package analytics

import (
	"time"

	"food-truck-api/models"
)

// DailyMetrics is the driver dashboard's "today's performance" card.
type DailyMetrics struct {
	Date         string  `json:"date"`
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	AverageOrder float64 `json:"average_order"`
}

// TodayMetrics aggregates the orders created on now's calendar day, in now's
// location.
func TodayMetrics(orders []models.Order, now time.Time) DailyMetrics {
	loc := now.Location()
	y, m, d := now.Date()

	metrics := DailyMetrics{Date: now.Format("2006-01-02")}
	for _, o := range orders {
		oy, om, od := o.CreatedAt.In(loc).Date()
		if oy != y || om != m || od != d {
			continue
		}
		metrics.TotalOrders++
		metrics.TotalRevenue += o.TotalCost
	}
	if metrics.TotalOrders > 0 {
		metrics.AverageOrder = metrics.TotalRevenue / float64(metrics.TotalOrders)
	}
	return metrics
}

// OrderTotal is the sum of price × quantity over the order's items.
func OrderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
