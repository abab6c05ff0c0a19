// Package electionlifecycle implements the election lifecycle manager inside
// the election-ops context.
//
// It owns the Election aggregate and its state machine
// (CONFIGURED -> ACTIVE -> ENDED -> CLOSED). Every transition is applied to
// the settlement ledger first and committed locally only after the ledger
// accepted it; local commits are compare-and-set so concurrent transitions
// on the same election serialize in the store. Elections past their end date
// are expired lazily by whichever read path observes them first.
package electionlifecycle
