package mint

import (
	"errors"
	"fmt"
)

const (
	MessageTitle         = "Title must be 32 characters or less."
	MessageTitleBytes    = "Title must be 32 bytes or less when encoded."
	MessageTitleRequired = "Title is required."
	MessagePublicKey     = "Invalid public key."
	MessageContent       = "Invalid Markdown content."
	MessageSummary       = "Summary cannot be merged into invalid front matter."
	MessageUpload        = "Error uploading JSON."
	MessageBuild         = "Error minting NFT."
)

var (
	ErrUpload = errors.New("metadata upload failed")
	ErrBuild  = errors.New("mint transaction build failed")
)

// ValidationError rejects a request field before any upload happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newValidationError(field string, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PublicMessage maps an error from Prepare to the text returned to clients.
func PublicMessage(err error) string {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrUpload):
		return MessageUpload
	default:
		return MessageBuild
	}
}
