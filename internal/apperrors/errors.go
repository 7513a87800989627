package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a uniqueness or concurrency conflict, such as a
// duplicate account code, a duplicate day book date, or a lost-update race.
var ErrConflict = errors.New("resource conflict")

// ErrInvariantViolation indicates that an operation would break a ledger
// invariant: an unbalanced journal entry, a cyclic account parent, or a
// negative reconciled cash balance.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrInvalidState indicates an illegal lifecycle transition, such as posting
// a non-draft entry, reconciling a day book twice, or closing before
// reconciliation.
var ErrInvalidState = errors.New("invalid state transition")

// ErrLockNotAcquired indicates that a per-aggregate lock could not be taken
// within a bounded wait. Callers may retry safely.
var ErrLockNotAcquired = errors.New("lock not acquired")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
