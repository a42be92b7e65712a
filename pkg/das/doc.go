// Package das provides a client for Digital Asset Standard indexers, the
// JSON-RPC read API that serves both regular and compressed Solana NFTs.
//
// Indexer errors come back as *RPCError values. Code -32000 marks an id the
// indexer does not know; see IsNotFound.
package das
