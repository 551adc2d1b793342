package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Status is a value object: it validates itself and answers which targets are
// reachable from it. Persistence stores the integer value; the wire format is
// the upper-case name returned by String.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Preparing indicates the store has started assembling the order.
	Preparing

	// Ready indicates the order is waiting to be picked up.
	Ready

	// PickedUp indicates the customer collected the order. Terminal.
	PickedUp

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "PENDING",
	Preparing: "PREPARING",
	Ready:     "READY",
	PickedUp:  "PICKED_UP",
	Cancelled: "CANCELLED",
}

var transitions = map[Status][]Status{
	Pending:   {Preparing, Cancelled},
	Preparing: {Ready, Cancelled},
	Ready:     {PickedUp, Cancelled},
}

// ParseStatus resolves an exact wire name such as "PICKED_UP" to a Status.
// Any other spelling yields a ValueIsInvalidError.
func ParseStatus(name string) (Status, error) {
	for status, statusName := range statusNames {
		if statusName == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a recognized status", name),
	)
}

// Validate checks that s is one of the five recognized statuses.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "UNKNOWN" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == PickedUp || s == Cancelled
}

// CanTransitionTo reports whether target is reachable from s in one step.
// Self transitions are never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target if the move is legal.
//
// Returns:
//   - (target, nil) on a legal transition
//   - (Unknown, *errs.ValueIsInvalidError) if target is not a recognized status
//   - (Unknown, *errs.IllegalTransitionError) if s does not permit target
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewIllegalTransitionError(s.String(), target.String())
	}
	return target, nil
}
