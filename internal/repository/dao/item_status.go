package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserItemStatus struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_item_statuses_user_menu"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	MenuID    uint   `gorm:"not null;uniqueIndex:idx_user_item_statuses_user_menu;index"`
	Menu      Menu   `gorm:"constraint:OnDelete:CASCADE"`
	Status    string `gorm:"size:16;not null"`
	UpdatedAt time.Time
}

func (UserItemStatus) TableName() string {
	return "user_item_statuses"
}

// StatusWithMenu is a status row joined with its menu name.
type StatusWithMenu struct {
	MenuID    uint
	MenuName  string
	Status    string
	UpdatedAt time.Time
}

type ItemStatusDAO struct {
	db *gorm.DB
}

func NewItemStatusDAO(db *gorm.DB) *ItemStatusDAO {
	return &ItemStatusDAO{
		db: db,
	}
}

// Upsert inserts the (user, menu) row or overwrites its status and
// timestamp in a single statement.
func (d *ItemStatusDAO) Upsert(ctx context.Context, row UserItemStatus) error {
	return d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "menu_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&row).Error
}

func (d *ItemStatusDAO) FindByUserID(ctx context.Context, userID uint) ([]StatusWithMenu, error) {
	var rows []StatusWithMenu

	result := d.db.WithContext(ctx).
		Table("user_item_statuses AS s").
		Select("s.menu_id AS menu_id, m.name AS menu_name, s.status AS status, s.updated_at AS updated_at").
		Joins("JOIN menus AS m ON m.id = s.menu_id").
		Where("s.user_id = ?", userID).
		Order("s.menu_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *ItemStatusDAO) CountByUserAndMenu(ctx context.Context, userID, menuID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&UserItemStatus{}).
		Where("user_id = ? AND menu_id = ?", userID, menuID).
		Count(&count)

	return count, result.Error
}
