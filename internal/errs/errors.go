package errs

import "errors"

// Common sentinel errors for cross-layer signaling. Resources scoped to
// another user surface as ErrNotFound rather than a dedicated forbidden
// error, so responses never confirm that a foreign resource exists.
var (
    ErrNotFound = errors.New("not_found")
    ErrInvalid  = errors.New("invalid")
    // ErrInvalidAmount indicates a missing, zero or unparseable monetary amount
    ErrInvalidAmount = errors.New("invalid_amount")
    // ErrMissingProject indicates a request without a project reference
    ErrMissingProject = errors.New("missing_project")
    // ErrMissingDate indicates a request without a usable date
    ErrMissingDate = errors.New("missing_date")
    // ErrMissingRange indicates a range query without both bounds
    ErrMissingRange = errors.New("missing_range")
)
