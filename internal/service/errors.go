package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

// notFoundOr maps gorm.ErrRecordNotFound to an apperror and wraps anything else.
func notFoundOr(err error, resource, id, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
