// Package tokencirculation moves funds between the operator and
// participants in the treasury context.
//
// Participants are pre-funded with a small stake so they can pay ledger
// fees while voting, and their remaining balance is reclaimed afterwards.
// All amounts are integer ledger units and the fee is quoted right before
// each reclaim transfer. Batch transfers report one result per target and
// never fail as a whole because of a single target.
package tokencirculation
