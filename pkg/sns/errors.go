package sns

import "errors"

var (
	ErrDomainNotFound   = errors.New("domain not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidShortname = errors.New("invalid shortname")
)
