// Package verify builds the transactions a creator signs to verify their
// authorship of an Etched asset.
//
// Plan decides what a signer can do with an asset. Builder turns a
// VerifyCreator plan into a transaction the creator's wallet signs: bubblegum
// verify_creator for compressed assets (using the indexer's merkle proof) and
// token-metadata Verify for regular mints.
package verify
