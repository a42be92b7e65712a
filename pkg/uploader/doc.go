// Package uploader stores NFT metadata documents in off-chain storage.
// NFTStorage targets the nft.storage HTTP API and returns gateway URIs
// under /ipfs/<cid>.
package uploader
