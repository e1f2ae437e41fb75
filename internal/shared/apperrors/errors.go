// Package apperrors defines the error kinds shared by every public operation.
// Callers match kinds with errors.Is; the wrapped cause stays reachable too.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteFetchFailed means an aggregator or payments call failed or timed out.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
	// ErrNotFound means a referenced bank, user or document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoAccountsLinked means the aggregator returned no accounts for a credential.
	ErrNoAccountsLinked = errors.New("no accounts linked")
	// ErrFundingSourceCreationFailed means the payments processor did not create a funding source.
	ErrFundingSourceCreationFailed = errors.New("funding source creation failed")
	// ErrSyncIncomplete means transaction paging hit its cap while the remote still reported more.
	ErrSyncIncomplete = errors.New("transaction sync incomplete")
	// ErrPersistenceFailed means a document store write failed.
	ErrPersistenceFailed = errors.New("persistence failed")

	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
)

// Wrap annotates cause with an operation name and an error kind.
// The result satisfies errors.Is for both kind and cause.
func Wrap(kind error, op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	if errors.Is(cause, kind) {
		return fmt.Errorf("%s: %w", op, cause)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// Kind returns the first known kind found in err's chain, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrNotFound,
		ErrUnauthorized,
		ErrInvalidInput,
		ErrAlreadyExists,
		ErrNoAccountsLinked,
		ErrFundingSourceCreationFailed,
		ErrSyncIncomplete,
		ErrRemoteFetchFailed,
		ErrPersistenceFailed,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
