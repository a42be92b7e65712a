// Package bubblegum builds instructions for the Metaplex Bubblegum program,
// which mints and updates compressed NFTs stored as leaves of a concurrent
// merkle tree, and decodes the leaf events it logs.
package bubblegum
