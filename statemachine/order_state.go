package statemachine

import (
	"strings"

	"food-truck-api/apperrors"
	"food-truck-api/models"
)

// Actors allowed to move an order.
const (
	ActorCustomer = "customer"
	ActorDriver   = "driver"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Driver starts cooking
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorDriver},
	// Driver marks the order ready for collection
	{From: models.StatusPending, To: models.StatusReady, Actor: ActorDriver},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorDriver},
	// Customer collected the order
	{From: models.StatusReady, To: models.StatusCompleted, Actor: ActorDriver},
	// Either side can cancel an order that is still active
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorDriver},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorDriver},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorDriver},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorCustomer},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// legacyStatuses maps every status string older clients wrote onto the
// canonical enum.
var legacyStatuses = map[string]models.OrderStatus{
	"":           models.StatusPending,
	"new":        models.StatusPending,
	"processing": models.StatusPending,
	"pending":    models.StatusPending,
	"preparing":  models.StatusPreparing,
	"ready":      models.StatusReady,
	"completed":  models.StatusCompleted,
	"cancelled":  models.StatusCancelled,
	"canceled":   models.StatusCancelled,
}

// Normalize converts a raw status string into the canonical enum.
func Normalize(raw string) (models.OrderStatus, error) {
	status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", apperrors.Validation("status", "unknown order status '"+raw+"'")
	}
	return status, nil
}

// LegacyMapping returns a copy of the legacy-to-canonical status table.
func LegacyMapping() map[string]models.OrderStatus {
	m := make(map[string]models.OrderStatus, len(legacyStatuses))
	for k, v := range legacyStatuses {
		m[k] = v
	}
	return m
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// TerminalStates lists the canonical statuses an order never leaves.
func TerminalStates() []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusPreparing, models.StatusReady,
		models.StatusCompleted, models.StatusCancelled,
	} {
		if IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
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

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return apperrors.Conflict(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	if IsTerminal(status) {
		return "none (terminal state)"
	}
	nexts := ValidTransitionsFrom(status)
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}

// Aliases returns every stored string that normalizes to status, canonical
// value first.
func Aliases(status models.OrderStatus) []string {
	out := []string{string(status)}
	for raw, s := range legacyStatuses {
		if s == status && raw != string(status) {
			out = append(out, raw)
		}
	}
	return out
}
