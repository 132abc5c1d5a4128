package dao

import "gorm.io/gorm"

// InitTables creates the schema with gorm's AutoMigrate. Postgres
// deployments use the goose migrations in internal/db instead.
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&AllowedEmail{},
		&User{},
		&Menu{},
		&UserItemStatus{},
		&QRToken{},
	)
}
