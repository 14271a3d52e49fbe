package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"docmarket/internal/model"
)

// ResolveSubject decides whose records a request is about. An empty requested user means the
// caller; only administrators may name someone else.
func ResolveSubject(actor model.Identity, requested string) (string, error) {
	if actor.Email == "" {
		return "", ErrUnauthorized
	}
	user := model.NormalizeEmail(requested)
	if user == "" {
		return actor.Email, nil
	}
	if err := validation.Validate(user, is.EmailFormat); err != nil {
		return "", validationErr(errors.New("user: must be a valid email address"))
	}
	if user != actor.Email && !actor.IsAdmin() {
		return "", ErrForbidden
	}
	return user, nil
}
