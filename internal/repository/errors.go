package repository

import (
	"errors"
	"strings"

	"qr_ordering/internal/apperror"

	"gorm.io/gorm"
)

// translate maps gorm failures onto the application error taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s not found", what)
	}
	if isDuplicateKey(err) {
		return apperror.Conflict("%s already exists", what)
	}
	return apperror.Store("failed to access "+what, err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
