// Package activity defines the audit trail of cart mutations.
//
// Every mutating request against a cart leaves one entry describing how far
// it got through Load, Validate, Mutate and Persist, and how it ended. The
// trace_id field links an entry to the distributed trace of the request.
package activity

import "time"

// Operation is the cart use case that produced an entry.
type Operation string

const (
	OpCreateCart         Operation = "CREATE_CART"
	OpAddItem            Operation = "ADD_ITEM"
	OpUpdateItemQuantity Operation = "UPDATE_ITEM_QUANTITY"
	OpRemoveItem         Operation = "REMOVE_ITEM"
	OpClearCart          Operation = "CLEAR_CART"
	OpDeleteCart         Operation = "DELETE_CART"
)

// Stage is the last step a request reached.
type Stage string

const (
	StageLoad     Stage = "LOAD"
	StageValidate Stage = "VALIDATE"
	StageMutate   Stage = "MUTATE"
	StagePersist  Stage = "PERSIST"
)

// Outcome is how the request ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "COMPLETED"
	// OutcomeRejected is a business rule refusal (not found, invalid).
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeFailed is an infrastructure failure.
	OutcomeFailed Outcome = "FAILED"
)

// Entry is a single row in the cart_activity table.
type Entry struct {
	CartID    string
	Operation Operation
	ProductID string
	Quantity  int
	Stage     Stage
	Outcome   Outcome
	// Detail holds the rejection or failure reason; empty on success.
	Detail string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}
