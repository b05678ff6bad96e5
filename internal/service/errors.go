package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"streamadmin/internal/pagination"
	"streamadmin/internal/query"
	"streamadmin/internal/repository"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflicts with existing records")
	// ErrInUse is returned when a record cannot be removed while others reference it.
	ErrInUse = errors.New("still referenced by other records")
	// ErrQueryFailed carries no detail; the cause is logged where it happens.
	ErrQueryFailed = errors.New("failed to load")
	// ErrExportDisabled is returned when no object store is configured.
	ErrExportDisabled = errors.New("exports are not configured")

	errBadID    = errors.New("id must be a positive integer")
	errNoStatus = errors.New("status: not supported for this list")
)

// invalid wraps a caller mistake so that it matches ErrInvalidInput and keeps its message.
func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// classify translates lower-layer errors into service errors. ok is false for causes that
// must not reach a client.
func classify(err error) (out error, ok bool) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return invalid(describe(verrs)), true
	case errors.Is(err, pagination.ErrInvalidPage),
		errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, query.ErrInvalidSort),
		errors.Is(err, query.ErrInvalidOrder),
		errors.Is(err, repository.ErrInvalidFilter):
		return invalid(err), true
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound, true
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyExists, true
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict, true
	case errors.Is(err, repository.ErrInUse):
		return ErrInUse, true
	case errors.Is(err, pagination.ErrQueryFailed):
		return ErrQueryFailed, true
	}
	return ErrQueryFailed, false
}

// failure maps err for the caller. Causes that are not safe to return are logged with op.
func failure(log zerolog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	out, ok := classify(err)
	if !ok {
		log.Error().Err(err).Str("op", op).Msg("operation failed")
	}
	return out
}

// describe renders the first failed field as "field: rule".
func describe(verrs validator.ValidationErrors) error {
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s: %s", fe.Field(), fe.Tag())
}
