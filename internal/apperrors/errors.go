package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpstream indicates that the external rate API could not be reached or
// reported a failure for the requested pair and date.
var ErrUpstream = errors.New("upstream error")

// ErrLogic indicates an internal invariant violation, e.g. a zero exchange
// rate reaching a conversion.
var ErrLogic = errors.New("logic error")
