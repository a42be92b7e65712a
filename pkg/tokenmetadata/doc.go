// Package tokenmetadata builds the Token Metadata program instructions used
// to verify and add creators on uncompressed NFTs.
package tokenmetadata
