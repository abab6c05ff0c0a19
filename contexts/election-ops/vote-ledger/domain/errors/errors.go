package errors

import "errors"

var (
	ErrInvalidVote       = errors.New("invalid vote request")
	ErrElectionNotFound  = errors.New("election not found")
	ErrElectionNotActive = errors.New("election is not active")
	ErrElectionEnded     = errors.New("election has ended")
	ErrInvalidPost       = errors.New("post index is out of range")
	ErrInvalidCandidate  = errors.New("candidate index is out of range")
	ErrAlreadyVoted      = errors.New("voter already voted for this post")
	ErrVoterKeyMissing   = errors.New("voter has no custodial signing key")
	ErrLedgerUnavailable = errors.New("ledger gateway call failed")
)
