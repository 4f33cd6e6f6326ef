package model

import "errors"

// ErrInvalidTerms is returned when loan terms cannot produce a schedule.
// Callers receive it wrapped with the failing field.
var ErrInvalidTerms = errors.New("invalid loan terms")
