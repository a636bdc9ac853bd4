package ledger

import "errors"

var (
	// ErrNotFound means the referenced record id is outside the registry.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidState means the record's current status forbids the action.
	ErrInvalidState = errors.New("record status forbids this action")
	// ErrAlreadyVoted means the identity has already voted on this proposal.
	ErrAlreadyVoted = errors.New("already voted on this proposal")
	// ErrInvalidAmount means a positive amount was required.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUnauthorized means the caller lacks the required role.
	ErrUnauthorized = errors.New("caller not authorized")
	// ErrAlreadyRegistered means the identity already has a member record.
	ErrAlreadyRegistered = errors.New("member already registered")
)
