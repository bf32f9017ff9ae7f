package pathpattern

import "errors"

// ErrInvalidPattern is returned for blank or malformed patterns.
var ErrInvalidPattern = errors.New("pathpattern.invalid")
