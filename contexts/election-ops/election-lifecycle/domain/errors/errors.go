package errors

import "errors"

var (
	ErrInvalidElection        = errors.New("invalid election definition")
	ErrElectionNotFound       = errors.New("election not found")
	ErrOperatorRequired       = errors.New("operator role is required")
	ErrNotElectionOwner       = errors.New("election is owned by another operator")
	ErrAnotherElectionActive  = errors.New("another election is already active")
	ErrElectionAlreadyActive  = errors.New("election is already active")
	ErrElectionAlreadyStarted = errors.New("election has already been started")
	ErrElectionNotActive      = errors.New("election is not active")
	ErrElectionStillActive    = errors.New("election must be ended before it can be closed")
	ErrElectionNotStarted     = errors.New("election has not been started")
	ErrElectionClosed         = errors.New("election is already closed")
	ErrTransitionConflict     = errors.New("election state changed concurrently")
	ErrLedgerUnavailable      = errors.New("ledger gateway call failed")
)
