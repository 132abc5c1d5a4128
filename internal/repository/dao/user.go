package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists    = errors.New("an account with this email already exists")
	ErrUsernameExists     = errors.New("a user with that username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserPublicIDExists = errors.New("user public id collision")
)

type User struct {
	ID       uint      `gorm:"primaryKey"`
	PublicID uuid.UUID `gorm:"type:uuid;unique;not null"`

	Username string `gorm:"size:150;unique;not null"`
	Email    string `gorm:"size:254;unique;not null"`
	Password string `gorm:"not null"`

	FirstName string `gorm:"size:150;not null"`
	LastName  string `gorm:"size:150;not null"`
	IsStaff   bool   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		switch {
		case isUniqueViolation(result.Error, "users", "email"):
			return User{}, ErrUserEmailExists
		case isUniqueViolation(result.Error, "users", "username"):
			return User{}, ErrUsernameExists
		case isUniqueViolation(result.Error, "users", "public_id"):
			return User{}, ErrUserPublicIDExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// FindByEmail matches the address case-insensitively.
func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "LOWER(email) = LOWER(?)", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) SetStaff(ctx context.Context, id uint, isStaff bool) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_staff", isStaff)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
