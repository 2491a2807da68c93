package faults

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Code standardizes failure semantics across the compliance engine.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodePreconditionFailed Code = "precondition_failed"
	CodeValidationUnknown  Code = "validation_unknown"
	CodeAssemblyError      Code = "assembly_error"
	CodeStorageError       Code = "storage_error"
	CodePersistenceError   Code = "persistence_error"
	CodeConflict           Code = "conflict"
	CodeInvalidArgument    Code = "invalid_argument"
	CodeInternal           Code = "internal"
)

// Error is the canonical coded error wrapper. Validation fail/warning results are
// never represented as errors; only structural and precondition problems are.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a coded error with explicit code + operation.
func New(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

func NotFound(op, message string) error {
	return New(CodeNotFound, op, message, nil)
}

func PreconditionFailed(op, message string) error {
	return New(CodePreconditionFailed, op, message, nil)
}

func AssemblyError(op, message string) error {
	return New(CodeAssemblyError, op, message, nil)
}

func InvalidArgument(op, message string) error {
	return New(CodeInvalidArgument, op, message, nil)
}

func StorageError(op string, cause error) error {
	return New(CodeStorageError, op, "", cause)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code Code) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Code == code
}

// CodeOf extracts the fault code when available.
func CodeOf(err error) Code {
	var fe *Error
	if !errors.As(err, &fe) {
		return ""
	}
	return fe.Code
}

// MapStoreError translates store-layer failures into coded faults.
func MapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(CodeNotFound, op, "record not found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return New(CodePersistenceError, op, "store operation timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return New(CodeConflict, op, "unique constraint violated", err)
		case "23503":
			return New(CodePreconditionFailed, op, "referenced row missing", err)
		case "40001", "40P01", "55P03":
			return New(CodeConflict, op, "serialization conflict", err)
		}
	}

	return New(CodePersistenceError, op, err.Error(), err)
}
