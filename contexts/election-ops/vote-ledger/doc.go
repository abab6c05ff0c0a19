// Package voteledger records votes for the election-ops context.
//
// A vote is submitted to the settlement ledger first and recorded locally
// only after the ledger accepted it. The (voter, election, post) triple is
// unique in the store; the pre-check in the use case is advisory and the
// storage constraint rejects racing duplicates. When a voter has covered
// every post of an election, the remaining balance is reclaimed for the
// operator on a best-effort basis.
package voteledger
