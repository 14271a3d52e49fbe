package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateReference = errors.New("transaction reference already submitted")
	ErrInvalidTransition  = errors.New("invalid claim transition")
	ErrStorageFailure     = errors.New("storage failure")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotPayable         = errors.New("document is free and needs no payment")
	ErrAlreadyEntitled    = errors.New("user already has access to this document")
)

// storageErr maps repository sentinels onto the service taxonomy. Errors that already carry a
// service sentinel pass through; anything else is a storage failure.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateReference):
		return ErrDuplicateReference
	case isServiceErr(err):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
}

func isServiceErr(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrDuplicateReference,
		ErrInvalidTransition,
		ErrStorageFailure,
		ErrValidation,
		ErrForbidden,
		ErrUnauthorized,
		ErrNotPayable,
		ErrAlreadyEntitled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

var errDocumentIDRequired = errors.New("document_id: cannot be blank")

// wellFormedID reports whether id can name a stored document. Document ids are UUIDs.
func wellFormedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// findDocument loads a document, treating malformed ids as missing.
func findDocument(ctx context.Context, docs repository.DocumentRepository, id string) (*model.Document, error) {
	if !wellFormedID(id) {
		return nil, ErrNotFound
	}
	doc, err := docs.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return doc, nil
}
