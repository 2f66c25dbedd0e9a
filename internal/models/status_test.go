package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"pending to shipped skips a step", StatusPending, StatusShipped, false},
		{"pending to delivered skips steps", StatusPending, StatusDelivered, false},
		{"no moving backwards", StatusShipped, StatusProcessing, false},
		{"cancel from pending", StatusPending, StatusCancelled, true},
		{"cancel from processing", StatusProcessing, StatusCancelled, true},
		{"cancel from shipped", StatusShipped, StatusCancelled, true},
		{"cancel after delivery", StatusDelivered, StatusCancelled, false},
		{"revive a cancelled order", StatusCancelled, StatusProcessing, false},
		{"delivered is terminal", StatusDelivered, StatusProcessing, false},
		{"same status is a no-op", StatusProcessing, StatusProcessing, true},
		{"unknown target", StatusPending, OrderStatus("misplaced"), false},
		{"unknown source", OrderStatus("misplaced"), StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatusPredecessors(t *testing.T) {
	for _, to := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		froms := StatusPredecessors(to)
		for _, from := range froms {
			assert.Truef(t, from.CanTransition(to), "%s should transition to %s", from, to)
		}
		for _, from := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
			if from.CanTransition(to) {
				assert.Containsf(t, froms, from, "%s -> %s missing from predecessors", from, to)
			}
		}
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("Paid").Valid())
}
