package tokens

import "errors"

// ErrExpired is returned when a token's exp claim is in the past.
var ErrExpired = errors.New("token expired")

// ErrInvalid covers every other verification failure: bad signature,
// unexpected signing method, or a malformed token string.
var ErrInvalid = errors.New("token invalid")
