// Package assets loads Etched works from a DAS indexer, fills in metadata the
// indexer left empty and decides whether a work's authorship is verified.
//
// A work is verified only when every creator entry carries a signature.
package assets
