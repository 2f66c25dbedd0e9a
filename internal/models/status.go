package models

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// next maps each status to its single forward successor.
var next = map[OrderStatus]OrderStatus{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// CanTransition reports whether an order may move from s to to. Orders only
// move forward through pending, processing, shipped and delivered; any
// non-terminal order may be cancelled. Setting the current status again is a
// no-op and allowed.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !s.Valid() || !to.Valid() {
		return false
	}
	if s == to {
		return true
	}
	if to == StatusCancelled {
		return !s.Terminal()
	}
	return next[s] == to
}

// StatusPredecessors returns every status from which to is reachable,
// including to itself. Used to express a transition check as a single
// conditional write.
func StatusPredecessors(to OrderStatus) []OrderStatus {
	froms := []OrderStatus{to}
	for from, succ := range next {
		if succ == to {
			froms = append(froms, from)
		}
	}
	if to == StatusCancelled {
		froms = append(froms, StatusPending, StatusProcessing, StatusShipped)
	}
	return froms
}
