package assets

import "errors"

var errIndexerRequired = errors.New("asset indexer is required")
