package statemachine

import (
	"fmt"
	"strings"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// Actor names who is allowed to perform a transition
type Actor string

const (
	ActorKitchen  Actor = "kitchen"
	ActorWaiter   Actor = "waiter"
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

// ActorFor maps a user role onto the actor it acts as
func ActorFor(role models.UserRole) Actor {
	switch role {
	case models.RoleKitchenStaff:
		return ActorKitchen
	case models.RoleWaiter:
		return ActorWaiter
	case models.RoleAdmin:
		return ActorAdmin
	default:
		return ActorCustomer
	}
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the status lifecycle shared by order lines and orders
var validTransitions = []Transition{
	// Kitchen picks the line up and finishes it
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorKitchen},
	{From: models.StatusPreparing, To: models.StatusPrepared, Actor: ActorKitchen},
	// Waiter brings it to the table and closes it
	{From: models.StatusPrepared, To: models.StatusServed, Actor: ActorWaiter},
	{From: models.StatusServed, To: models.StatusCompleted, Actor: ActorWaiter},
	// Customers can only cancel what the kitchen has not touched
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// NormalizeStatus maps legacy spellings still emitted by older screens and
// backends ("prepairing", "prepaired") and stray casing onto the canonical statuses.
func NormalizeStatus(s models.OrderStatus) models.OrderStatus {
	v := models.OrderStatus(strings.ToLower(strings.TrimSpace(string(s))))
	switch v {
	case "prepairing":
		return models.StatusPreparing
	case "prepaired", "ready":
		return models.StatusPrepared
	}
	return v
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	status = NormalizeStatus(status)
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// NextFor returns the states the given actor may move status to
func NextFor(status models.OrderStatus, actor Actor) []models.OrderStatus {
	status = NormalizeStatus(status)
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	from, to = NormalizeStatus(from), NormalizeStatus(to)
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
