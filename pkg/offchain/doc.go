// Package offchain fetches the JSON metadata documents that NFTs reference
// from off-chain storage.
package offchain
