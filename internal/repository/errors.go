package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrNotOwner          = errors.New("record belongs to another user")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLastAdmin         = errors.New("at least one admin must remain")
	ErrNotPending        = errors.New("payment is not pending")
)

// notFound folds gorm's missing-row error into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
