package duty

import "errors"

var (
	ErrNotAuthorized   = errors.New("user is not an authorized moderator")
	ErrAlreadyOnDuty   = errors.New("user is already on duty")
	ErrNotOnDuty       = errors.New("user is not on duty")
	ErrNotSessionOwner = errors.New("responder does not own this duty session")
	ErrInvalidArgument = errors.New("invalid argument")
)
