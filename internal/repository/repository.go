package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared by every store. The service layer maps these onto
// its own taxonomy; handlers never see them directly.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// mapWriteErr converts Mongo duplicate-key failures (code 11000, e.g. two
// concurrent registrations racing on the unique email index) into
// ErrDuplicate so callers can treat the race the same as the pre-check.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
