package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"food-truck-api/models"
)

func ordersWith(statuses ...models.OrderStatus) []models.Order {
	out := make([]models.Order, len(statuses))
	for i, s := range statuses {
		out[i] = models.Order{Status: s}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(ordersWith(
		models.StatusPending, models.StatusPending, models.StatusPreparing,
		models.StatusReady, models.StatusCompleted, models.StatusCancelled,
	))
	assert.Equal(t, Summary{Pending: 2, Preparing: 1, Ready: 1, Completed: 1}, s)
	assert.Equal(t, 5, s.Total())
}

func TestMove_MarkReady(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusPending, models.StatusPreparing} {
		s := Summarize(ordersWith(from))
		s.Move(from, models.StatusReady)
		assert.Equal(t, Summarize(ordersWith(models.StatusReady)), s)
		assert.Equal(t, 1, s.Total())

		// the other active order keeps its bucket
		s = Summary{Pending: 1, Preparing: 1}
		s.Move(from, models.StatusReady)
		assert.Equal(t, 1, s.Ready)
		assert.Equal(t, 2, s.Total())
	}
}

func TestMove_CancelRemovesFromPreviousBucket(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusPending, models.StatusPreparing, models.StatusReady} {
		orders := ordersWith(from, models.StatusCompleted)
		s := Summarize(orders)
		s.Move(from, models.StatusCancelled)

		orders[0].Status = models.StatusCancelled
		assert.Equal(t, Summarize(orders), s, "from %s", from)
		assert.Equal(t, 1, s.Total())
	}
}

func TestMove_NeverNegative(t *testing.T) {
	var s Summary
	s.Move(models.StatusReady, models.StatusCompleted)
	assert.Equal(t, Summary{Completed: 1}, s)
}
