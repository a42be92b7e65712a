// Package mint prepares compressed NFT mint transactions for Etched works.
//
// Prepare validates the request, uploads the off-chain JSON, builds a
// Bubblegum mint_v1 behind a priority fee instruction and co-signs it with
// the tree authority. The author's wallet adds the remaining signature.
package mint
