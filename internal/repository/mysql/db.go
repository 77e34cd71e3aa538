package mysql

import (
	"Neighborhood_Hub/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init opens the MySQL connection. The handle is passed down explicitly;
// there is no package-level singleton. TranslateError lets repositories
// surface gorm.ErrDuplicatedKey on unique-index violations.
func Init(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Membership{},
		&model.Post{},
		&model.ChatSession{},
		&model.ChatMessage{},
	)
}
