// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import (
	"time"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/store"
	"github.com/readwellapp/readwell-server/internal/validation"
)

// validate is the shared request validator.
var validate = validation.New()

// notFoundOr maps store.ErrNotFound to a 404 domain error and passes
// everything else through.
func notFoundOr(err error, what string) error {
	if domainerrors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(what + " not found")
	}
	return err
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func fontRangeError() error {
	return domainerrors.ValidationWithDetails("validation failed", map[string]string{
		"fontMin": "must not exceed fontMax",
	})
}
