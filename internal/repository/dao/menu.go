package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrMenuNotFound   = errors.New("menu item not found")
	ErrMenuNameExists = errors.New("menu with this name already exists")
)

type Menu struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;unique;not null"`
	Description string `gorm:"type:text;not null"`
	Available   bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuDAO struct {
	db *gorm.DB
}

func NewMenuDAO(db *gorm.DB) *MenuDAO {
	return &MenuDAO{
		db: db,
	}
}

func (d *MenuDAO) Insert(ctx context.Context, menu Menu) (Menu, error) {
	result := d.db.WithContext(ctx).Create(&menu)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "menus", "name") {
			return Menu{}, ErrMenuNameExists
		}

		return Menu{}, result.Error
	}

	return menu, nil
}

func (d *MenuDAO) FindAll(ctx context.Context) ([]Menu, error) {
	var menus []Menu

	result := d.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&menus)
	if result.Error != nil {
		return nil, result.Error
	}

	return menus, nil
}

func (d *MenuDAO) FindByID(ctx context.Context, id uint) (Menu, error) {
	var menu Menu

	result := d.db.WithContext(ctx).First(&menu, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Menu{}, ErrMenuNotFound
		}

		return Menu{}, result.Error
	}

	return menu, nil
}

func (d *MenuDAO) FindByName(ctx context.Context, name string) (Menu, error) {
	var menu Menu

	result := d.db.WithContext(ctx).First(&menu, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Menu{}, ErrMenuNotFound
		}

		return Menu{}, result.Error
	}

	return menu, nil
}

// Update writes every column of menu, zero values included.
func (d *MenuDAO) Update(ctx context.Context, menu Menu) (Menu, error) {
	result := d.db.WithContext(ctx).
		Model(&Menu{ID: menu.ID}).
		Select("name", "description", "available", "updated_at").
		Updates(&menu)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "menus", "name") {
			return Menu{}, ErrMenuNameExists
		}

		return Menu{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Menu{}, ErrMenuNotFound
	}

	return d.FindByID(ctx, menu.ID)
}

// Delete removes the menu and every status row that references it.
func (d *MenuDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).Delete(&UserItemStatus{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Menu{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMenuNotFound
		}

		return nil
	})
}
