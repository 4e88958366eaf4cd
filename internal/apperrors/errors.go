package apperrors

import "fmt"

// Kind classifies workflow errors so callers can map them to transport
// status codes without string matching.
type Kind string

const (
	// KindNotAuthorized: the actor is not the approver on the ledger entry.
	KindNotAuthorized Kind = "not_authorized"
	// KindNotCurrentApprover: the entry exists but is not the active one.
	KindNotCurrentApprover Kind = "not_current_approver"
	// KindAlreadyActed: the entry is already in a terminal per-entry state.
	KindAlreadyActed Kind = "already_acted"
	// KindTerminalState: the minute is already Approved/Rejected and archived.
	KindTerminalState Kind = "terminal_state"
	// KindDuplicateMember: the user is already a member of the chain.
	KindDuplicateMember Kind = "duplicate_member"
	// KindDuplicateEntry: a ledger entry for (minute, approver) already exists.
	KindDuplicateEntry Kind = "duplicate_entry"
	// KindInvalidOrder: requested order outside [1, maxOrder+1].
	KindInvalidOrder Kind = "invalid_order"
	// KindNoPriorApproval: return-to target has no ledger entry for the minute.
	KindNoPriorApproval Kind = "no_prior_approval"
	// KindInvalidReturnTarget: return-to target is not strictly earlier in the chain.
	KindInvalidReturnTarget Kind = "invalid_return_target"
	// KindReturnToRejected: return-to target already rejected the minute.
	KindReturnToRejected Kind = "return_to_rejected"
	// KindEmptyChain: the chain has no members at submission time.
	KindEmptyChain Kind = "empty_chain"
	// KindNotFound: a referenced minute, chain, entry, or user does not exist.
	KindNotFound Kind = "not_found"
	// KindInvalidInput: a request is missing or malformed outside order rules.
	KindInvalidInput Kind = "invalid_input"
)

// Error is a typed workflow failure. All validation errors raised inside a
// transition carry a Kind; anything else that escapes the engine is an
// infrastructure error and stays opaque.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind so sentinel comparisons via errors.Is work:
//
//	errors.Is(err, apperrors.ErrDuplicateMember)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrNotAuthorized       = &Error{Kind: KindNotAuthorized, Message: "actor is not an approver of this minute"}
	ErrNotCurrentApprover  = &Error{Kind: KindNotCurrentApprover, Message: "actor is not the current approver"}
	ErrAlreadyActed        = &Error{Kind: KindAlreadyActed, Message: "approval entry already acted on"}
	ErrTerminalState       = &Error{Kind: KindTerminalState, Message: "minute is archived; no further actions accepted"}
	ErrDuplicateMember     = &Error{Kind: KindDuplicateMember, Message: "user is already a member of the approval chain"}
	ErrDuplicateEntry      = &Error{Kind: KindDuplicateEntry, Message: "approval entry already exists for this minute and approver"}
	ErrInvalidOrder        = &Error{Kind: KindInvalidOrder, Message: "order is out of range"}
	ErrNoPriorApproval     = &Error{Kind: KindNoPriorApproval, Message: "target user has no approval record for this minute"}
	ErrInvalidReturnTarget = &Error{Kind: KindInvalidReturnTarget, Message: "cannot return to an approver with the same or higher order"}
	ErrReturnToRejected    = &Error{Kind: KindReturnToRejected, Message: "cannot return to an approver who rejected the minute"}
	ErrEmptyChain          = &Error{Kind: KindEmptyChain, Message: "approval chain has no members"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
)

// Errorf builds a typed error with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidOrder reports an order outside the valid insertion range.
func InvalidOrder(got, maxOrder int) *Error {
	return Errorf(KindInvalidOrder, "invalid order %d: must be between 1 and %d", got, maxOrder+1)
}

// NotFound reports a missing entity by name and id.
func NotFound(entity string, id uint64) *Error {
	return Errorf(KindNotFound, "%s %d not found", entity, id)
}

// KindOf returns the Kind of err when it is a workflow Error, or "" otherwise.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
