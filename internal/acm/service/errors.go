package service

import (
	"errors"
	"fmt"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
)

// Error kinds surfaced by the service layer. Handlers map them onto HTTP
// status codes with errors.As; anything else is treated as a persistence
// failure.

// ValidationError is bad or missing input. The reason is reported verbatim to
// the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError is a uniqueness or state-machine violation: duplicate code,
// contract already closed, asset already scrapped.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NotFoundError is a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// PersistenceError is a transactional store failure. The wrapped cause is for
// logs; callers only ever see the generic message, and the transaction has
// already been rolled back.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "no changes were saved"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// storeErr translates a repository failure: absent rows become NotFoundError
// for the named entity, anything else becomes a PersistenceError.
func storeErr(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(entity)
	}
	return &PersistenceError{Err: err}
}
