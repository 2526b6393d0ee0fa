package orders

import (
	"fmt"

	"cafepos-backend/internal/models"
)

// Transition defines a valid order status change.
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the authoritative lifecycle: orders move forward
// only, COMPLETED is terminal.
var validTransitions = []Transition{
	{From: models.OrderCreated, To: models.OrderInProgress},
	{From: models.OrderInProgress, To: models.OrderReady},
	{From: models.OrderReady, To: models.OrderCompleted},
}

var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool)
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	nexts := NextStatuses(from)
	if len(nexts) == 0 {
		return fmt.Errorf("invalid transition: %s is a terminal status", from)
	}
	return fmt.Errorf("invalid transition: %s → %s (valid: %v)", from, to, nexts)
}
