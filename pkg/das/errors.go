package das

import (
	"errors"
	"fmt"
)

// CodeNotFound is returned by indexers when an id is not a known asset.
const CodeNotFound = -32000

// RPCError is the error envelope of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("das rpc error %d: %s", e.Code, e.Message)
}

// IsRPCError reports whether err carries an indexer error envelope.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}

// IsNotFound reports whether err is the indexer's not-found envelope.
func IsNotFound(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return rpcErr.Code == CodeNotFound
}
