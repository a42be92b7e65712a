// Package sns resolves Solana Name Service shortnames and checks whether a
// shortname has claimed its Etched page.
//
// A shortname such as alice.sol is bound when the etched.alice subdomain
// carries a url record equal to https://etched.id/alice.sol (optionally with
// www). Lookups that fail for any reason count as unbound.
package sns
