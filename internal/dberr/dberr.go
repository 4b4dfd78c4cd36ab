// Package dberr defines the error kinds shared across the storage and
// query layers. Kinds are sentinel values checked with errors.Is;
// callers that need a stack trace get one from the pkg/errors wrap.
package dberr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrIO wraps an underlying file system / storage failure.
	ErrIO = errors.New("io error")
	// ErrCorruptPage means a page footer is inconsistent with its
	// parsed payload, or a schema-guided parse overran page bytes.
	ErrCorruptPage = errors.New("corrupt page")
	// ErrRowTooLarge means a single row cannot fit in a page even
	// after accounting for the footer and slot reservation.
	ErrRowTooLarge = errors.New("row too large")
	// ErrSchemaViolation means a value failed to encode under its
	// declared type, or arity did not match the schema.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrUnknownColumn means an operator referenced a column absent
	// from the current column index.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnsupportedOp means hash_join/sort_merge_join was built with
	// a non-equality predicate.
	ErrUnsupportedOp = errors.New("unsupported op")
	// ErrMissingStep means a join/merge referenced a step key absent
	// from the result environment.
	ErrMissingStep = errors.New("missing step")
)

// IO wraps err as an ErrIO with additional context. The result matches
// both errors.Is(_, ErrIO) and errors.Is(_, err)'s own chain.
func IO(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrIO, err)
}

// wrap returns an error that is both errors.Is(kind) and carries msg
// as context, without discarding the sentinel's identity.
func wrap(kind error, format string, args ...any) error {
	return errors.Wrapf(kind, format, args...)
}

func CorruptPage(format string, args ...any) error {
	return wrap(ErrCorruptPage, format, args...)
}

func RowTooLarge(format string, args ...any) error {
	return wrap(ErrRowTooLarge, format, args...)
}

func SchemaViolation(format string, args ...any) error {
	return wrap(ErrSchemaViolation, format, args...)
}

func UnknownColumn(col string) error {
	return wrap(ErrUnknownColumn, "column %q", col)
}

func UnsupportedOp(op string) error {
	return wrap(ErrUnsupportedOp, "operator %q", op)
}

func MissingStep(key string) error {
	return wrap(ErrMissingStep, "step %q", key)
}
