package order

import (
	"fmt"

	"ordering/internal/pkg/errs"
)

// Status represents the lifecycle state of an order, a batch or an
// order item. All three levels share the same vocabulary; batches and
// items only ever use a subset of it.
//
// Order lifecycle:
//
//	Submitted ──> Accepted ──> InProduction ──> Completed
//	    │             │           │    ^
//	    │             │           v    │
//	    │             └─────> Suspended ──> Terminated
//	    v
//	Cancelled
//
//	Failed is reached from InProduction when item processing fails.
//	Downloaded is only used by items, after Completed.
//
// Status is a value object that validates state transitions and
// provides the protocol string representations used on the wire and
// in persistence.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Submitted is the initial status of every order. Orders stay
	// Submitted while they await moderation.
	Submitted

	// Accepted indicates the order passed moderation and is about to
	// be dispatched for processing.
	Accepted

	// InProduction indicates at least one of the order's items is
	// being processed.
	InProduction

	// Suspended indicates processing is paused: a subscription waiting
	// for its next timeslot, or a massive order between batches.
	Suspended

	// Cancelled indicates the order was rejected by a moderator or
	// cancelled by its owner. No further processing happens.
	Cancelled

	// Completed indicates every item was produced successfully.
	Completed

	// Failed indicates at least one item could not be produced.
	Failed

	// Terminated indicates a subscription whose validity period ended.
	Terminated

	// Downloaded indicates the produced item has been retrieved by the
	// user. Only items reach this status.
	Downloaded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "Unknown",
		Submitted:    "Submitted",
		Accepted:     "Accepted",
		InProduction: "InProduction",
		Suspended:    "Suspended",
		Cancelled:    "Cancelled",
		Completed:    "Completed",
		Failed:       "Failed",
		Terminated:   "Terminated",
		Downloaded:   "Downloaded",
	}
}

// ParseStatus converts a protocol string into a Status.
//
// Returns:
//   - the matching Status for a known name
//   - errs.ValueIsInvalidError for anything else, including "Unknown"
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
//
// Returns:
//   - nil if the status is one of the defined lifecycle states
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the protocol name of the status.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status marks the end of processing
// for an item or a batch. Completed, Failed and Downloaded need no
// further work.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed || s == Downloaded
}

// IsFinal reports whether an order in this status can never change
// status again.
func (s Status) IsFinal() bool {
	return s == Cancelled || s == Terminated
}

// TriggersParentUpdate reports whether a batch reaching this status
// must cause its parent order's status to be recomputed. Early and
// administrative states never propagate upwards.
func (s Status) TriggersParentUpdate() bool {
	switch s {
	case Submitted, Accepted, Cancelled, Suspended:
		return false
	default:
		return true
	}
}

// ValidateTransition checks whether moving from the current status to
// next is a legal lifecycle transition.
//
// Returns:
//   - nil if the transition is allowed
//   - error with details otherwise
func (s Status) ValidateTransition(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s.IsFinal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("cannot leave final status %s", s))
	}
	return nil
}
