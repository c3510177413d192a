// Package lifecycle holds the order status state machine and the role rules
// deciding who may move an order between states.
package lifecycle

import "github.com/polkiloo/marketplace/internal/domain/model"

// transitions is an allow-list. A status missing from the map has no way out.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPendingApproval: {model.OrderStatusProcessing, model.OrderStatusRejected, model.OrderStatusCancelled},
	model.OrderStatusProcessing:      {model.OrderStatusOutForDelivery, model.OrderStatusCancelled},
	model.OrderStatusOutForDelivery:  {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:       {},
	model.OrderStatusRejected:        {},
	model.OrderStatusCancelled:       {},
}

// CanTransition reports whether role may move an order from current to next.
func CanTransition(current, next model.OrderStatus, role model.Role) bool {
	if !tableAllows(current, next) {
		return false
	}
	return roleAllows(current, next, role)
}

// AllowedTransitions lists statuses role may request from current.
func AllowedTransitions(current model.OrderStatus, role model.Role) []model.OrderStatus {
	result := make([]model.OrderStatus, 0, len(transitions[current]))
	for _, next := range transitions[current] {
		if roleAllows(current, next, role) {
			result = append(result, next)
		}
	}
	return result
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status model.OrderStatus) bool {
	return len(transitions[status]) == 0
}

func tableAllows(current, next model.OrderStatus) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

func roleAllows(current, next model.OrderStatus, role model.Role) bool {
	switch role {
	case model.RoleBuyer:
		return current == model.OrderStatusPendingApproval && next == model.OrderStatusCancelled
	case model.RoleSeller, model.RoleAdmin:
		return true
	default:
		return false
	}
}
