// Package keyvault implements the custodial key vault inside the custody
// context.
//
// The vault seals per-account signing keys before they reach the record
// store and opens them again when a ledger operation must be authorized.
// Blobs are self-describing ("nonceHex:ciphertextHex") so no side channel is
// needed to decrypt, and any blob that fails authentication is reported as a
// data integrity failure rather than retried.
package keyvault
