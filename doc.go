// Etched lets writers mint Markdown as compressed NFTs on Solana, verify
// their authorship and publish their works under a Solana Name Service
// shortname.
//
// # Packages
//
//   - pkg/route: classifies page paths and decides the canonical location
//   - pkg/sns: shortname lookups and url record binding checks
//   - pkg/assets, pkg/das, pkg/offchain: indexer reads and metadata completion
//   - pkg/mint: server side mint transaction preparation
//   - pkg/verify: creator verification transactions
//   - pkg/txflow: client side sign, send and confirm state machine
//   - pkg/bubblegum, pkg/tokenmetadata: Metaplex instruction codecs
//
// # Binaries
//
// cmd/etched-server serves the HTTP API. cmd/etched is a CLI client that
// mints and verifies with a local keypair.
//
// # Installation
//
//	go get github.com/etched-id/etched-go@latest
package etched
