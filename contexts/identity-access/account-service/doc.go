// Package accountservice owns participant and operator accounts inside the
// identity-access context.
//
// Registration provisions a custodial wallet for every account and stores
// only the vault-sealed private key. Login verifies credentials, issues a
// bearer token and, for participants, hands the account to a login hook that
// may pre-fund it. The module also answers the account lookups that other
// modules need (operator resolution, custodial account listing).
package accountservice
