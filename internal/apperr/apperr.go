// Package apperr defines the domain error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	Validation
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// HTTPStatus maps an error to a response code. Unknown errors are 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Postgres SQLSTATE codes the service layer translates into domain errors.
const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

// FromPg translates store-level failures into the taxonomy:
// unique-constraint violations become Conflict (message chosen by
// constraint name via conflictMsg), foreign-key violations become
// Validation, pgx.ErrNoRows becomes NotFound. Anything else passes through.
func FromPg(err error, conflictMsg func(constraint string) string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return New(NotFound, "not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			msg := "already exists"
			if conflictMsg != nil {
				if m := conflictMsg(pgErr.ConstraintName); m != "" {
					msg = m
				}
			}
			return &Error{Kind: Conflict, Msg: msg, Err: err}
		case pgFKViolation:
			return &Error{Kind: Validation, Msg: "referenced entity does not exist", Err: err}
		}
	}
	return err
}
