package statemachine

import "food-truck-api/models"

// Summary counts orders per active dashboard bucket. Cancelled orders are
// not counted.
type Summary struct {
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Completed int `json:"completed"`
}

// Summarize builds a Summary from a list of orders.
func Summarize(orders []models.Order) Summary {
	var s Summary
	for _, o := range orders {
		if b := s.bucket(o.Status); b != nil {
			*b++
		}
	}
	return s
}

// Move shifts one order from its previous bucket to the next one. Moving to
// cancelled only removes it from the old bucket. Counts never go negative.
func (s *Summary) Move(from, to models.OrderStatus) {
	if b := s.bucket(from); b != nil && *b > 0 {
		*b--
	}
	if b := s.bucket(to); b != nil {
		*b++
	}
}

// Total is the number of orders across all buckets.
func (s Summary) Total() int {
	return s.Pending + s.Preparing + s.Ready + s.Completed
}

func (s *Summary) bucket(status models.OrderStatus) *int {
	switch status {
	case models.StatusPending:
		return &s.Pending
	case models.StatusPreparing:
		return &s.Preparing
	case models.StatusReady:
		return &s.Ready
	case models.StatusCompleted:
		return &s.Completed
	}
	return nil
}
