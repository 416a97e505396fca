// Package storage provides best-effort key-value persistence for session state.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value for key. A missing key returns found=false and no error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Status classifies the outcome of a storage operation.
type Status string

const (
	StatusOK                 Status = "ok"
	StatusUnavailable        Status = "storage_unavailable"
	StatusSerializationError Status = "serialization_error"
)

// Error describes a failed storage operation.
type Error struct {
	Status Status
	Op     string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %s: %v", e.Op, e.Key, e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the outcome of a storage operation. The zero value is a success.
type Result struct {
	err *Error
}

// OK is the successful result.
var OK = Result{}

// Failed builds a failed result.
func Failed(status Status, op, key string, err error) Result {
	return Result{err: &Error{Status: status, Op: op, Key: key, Err: err}}
}

// Status returns the outcome classification.
func (r Result) Status() Status {
	if r.err == nil {
		return StatusOK
	}
	return r.err.Status
}

// IsOK reports whether the operation succeeded.
func (r Result) IsOK() bool {
	return r.err == nil
}

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Merge returns the first failure among results, or OK.
func Merge(results ...Result) Result {
	for _, r := range results {
		if !r.IsOK() {
			return r
		}
	}
	return OK
}

// IsStatus reports whether err is a storage Error with the given status.
func IsStatus(err error, status Status) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Status == status
	}
	return false
}
