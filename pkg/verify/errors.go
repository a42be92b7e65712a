package verify

import (
	"errors"
	"fmt"
)

const (
	MessageAsset        = "Invalid asset address."
	MessageCreator      = "Invalid public key."
	MessageNotFound     = "Asset not found."
	MessageUnsupported  = "Signer cannot verify this asset."
	MessageCreatorsFull = "Asset already lists the maximum number of creators."
	MessageBuild        = "Error building verification transaction."

	maxCreators = 5
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAddCreatorUnsupported is returned for programmable NFTs, whose
	// metadata updates need token record and rule set accounts.
	ErrAddCreatorUnsupported = errors.New("adding a creator to a programmable NFT is not supported")
	ErrCreatorsFull          = errors.New("creator list is full")
	ErrAlreadyVerified       = errors.New("creator is already verified")
	ErrNotAuthorized         = errors.New("signer is neither a creator nor the update authority")
	ErrBuild                 = errors.New("verification transaction build failed")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PublicMessage maps an error from Builder.Prepare to the text returned to
// clients.
func PublicMessage(err error) string {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrAssetNotFound):
		return MessageNotFound
	case errors.Is(err, ErrCreatorsFull):
		return MessageCreatorsFull
	case errors.Is(err, ErrAddCreatorUnsupported),
		errors.Is(err, ErrAlreadyVerified),
		errors.Is(err, ErrNotAuthorized):
		return MessageUnsupported
	default:
		return MessageBuild
	}
}
