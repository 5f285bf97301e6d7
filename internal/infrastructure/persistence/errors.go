package persistence

import (
	"errors"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is the row lock used by the *ForUpdate finders. Dialects without
// row locks (sqlite) drop the clause.
var forUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// mapNotFound converts gorm's not-found error into shared.ErrNotFound
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// mapDuplicate converts a unique constraint violation into a domain error
// with the given code. The connection must be opened with TranslateError.
func mapDuplicate(err error, code, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(code, message)
	}
	return err
}

// mapInUse converts a foreign key violation on delete into a domain error
func mapInUse(err error, code, message string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.NewDomainError(code, message)
	}
	return err
}
