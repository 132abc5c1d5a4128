package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrQRTokenNotFound = errors.New("QR token not found")
	ErrQRTokenExists   = errors.New("QR token collision")
)

type QRToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"size:64;unique;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
}

func (QRToken) TableName() string {
	return "qr_tokens"
}

type QRTokenDAO struct {
	db *gorm.DB
}

func NewQRTokenDAO(db *gorm.DB) *QRTokenDAO {
	return &QRTokenDAO{
		db: db,
	}
}

func (d *QRTokenDAO) Insert(ctx context.Context, token QRToken) (QRToken, error) {
	result := d.db.WithContext(ctx).Omit("User").Create(&token)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "qr_tokens", "token") {
			return QRToken{}, ErrQRTokenExists
		}

		return QRToken{}, result.Error
	}

	return token, nil
}

// FindByToken loads the token together with its owner.
func (d *QRTokenDAO) FindByToken(ctx context.Context, token string) (QRToken, error) {
	var found QRToken

	result := d.db.WithContext(ctx).Preload("User").First(&found, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return QRToken{}, ErrQRTokenNotFound
		}

		return QRToken{}, result.Error
	}

	return found, nil
}
