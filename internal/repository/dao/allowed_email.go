package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAllowedEmailExists   = errors.New("allowed email already exists")
	ErrAllowedEmailNotFound = errors.New("allowed email not found")
)

type AllowedEmail struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"size:254;unique;not null"`
	Note  string `gorm:"size:255;not null"`
}

type AllowedEmailDAO struct {
	db *gorm.DB
}

func NewAllowedEmailDAO(db *gorm.DB) *AllowedEmailDAO {
	return &AllowedEmailDAO{
		db: db,
	}
}

func (d *AllowedEmailDAO) Insert(ctx context.Context, entry AllowedEmail) (AllowedEmail, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "allowed_emails", "email") {
			return AllowedEmail{}, ErrAllowedEmailExists
		}

		return AllowedEmail{}, result.Error
	}

	return entry, nil
}

// Exists matches the address case-insensitively.
func (d *AllowedEmailDAO) Exists(ctx context.Context, email string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&AllowedEmail{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *AllowedEmailDAO) FindAll(ctx context.Context) ([]AllowedEmail, error) {
	var entries []AllowedEmail

	result := d.db.WithContext(ctx).Order("email").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

func (d *AllowedEmailDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&AllowedEmail{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAllowedEmailNotFound
	}

	return nil
}
